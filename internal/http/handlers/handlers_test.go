package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/football-sync-service/internal/cycle"
	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/poller"
	"github.com/preston-bernstein/football-sync-service/internal/teststubs"
	"github.com/preston-bernstein/football-sync-service/internal/testutil"
)

func newTarget(t *testing.T, name, path string, kind snapshot.Kind, p *teststubs.StubProvider, st *teststubs.StubStore) *cycle.Controller {
	t.Helper()
	c, err := cycle.New(cycle.Target{Name: name, Path: path, Kind: kind}, p, st, cycle.Options{})
	if err != nil {
		t.Fatalf("cycle.New: %v", err)
	}
	return c
}

func syncedHandler(t *testing.T) (*Handler, *teststubs.StubStore) {
	t.Helper()
	st := teststubs.NewStubStore()
	detail := newTarget(t, "latest", "matches/latest", snapshot.KindMatchDetail, &teststubs.StubProvider{
		Raw: map[string]any{
			"matchInfo": map[string]any{"league": "الدوري", "homeTeam": map[string]any{"name": "A"}},
			"stats":     map[string]any{"Shots": map[string]any{"home": "4", "away": "2"}},
		},
	}, st)
	list := newTarget(t, "today", "matches/today", snapshot.KindMatchList, &teststubs.StubProvider{}, st)
	if _, err := detail.RunCycle(context.Background()); err != nil {
		t.Fatalf("seed cycle: %v", err)
	}
	return NewHandler(st, []Target{detail, list}, nil, nil), st
}

func TestHealth(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestHealthRejectsPost(t *testing.T) {
	rr := testutil.Serve(NewHandler(nil, nil, nil, nil), http.MethodPost, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestReadyWithoutStatusFunc(t *testing.T) {
	rr := testutil.Serve(NewHandler(nil, nil, nil, nil), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyReportsEveryTarget(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	statuses := map[string]poller.Status{
		"latest": {LastSuccess: now},
		"today":  {LastSuccess: now, ConsecutiveFailures: 1, LastError: "timeout"},
	}
	h := NewHandler(nil, nil, nil, func() map[string]poller.Status { return statuses })

	rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp struct {
		Status  string                   `json:"status"`
		Targets map[string]readinessView `json:"targets"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Status != "ready" || len(resp.Targets) != 2 {
		t.Fatalf("unexpected readiness %+v", resp)
	}
	if resp.Targets["today"].ConsecutiveFailures != 1 || resp.Targets["latest"].LastSuccess != "2024-01-01T12:00:00.000Z" {
		t.Fatalf("unexpected target readiness %+v", resp.Targets)
	}
}

func TestReadyFailsWhenAnyTargetFailing(t *testing.T) {
	statuses := map[string]poller.Status{
		"latest": {LastSuccess: time.Now()},
		"today":  {ConsecutiveFailures: 3, LastError: "fetch kooora: status 503"},
	}
	h := NewHandler(nil, nil, nil, func() map[string]poller.Status { return statuses })

	rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "fetch kooora: status 503" {
		t.Fatalf("expected last error surfaced, got %v", resp["error"])
	}
}

func TestReadyBeforeFirstSuccess(t *testing.T) {
	h := NewHandler(nil, nil, nil, func() map[string]poller.Status {
		return map[string]poller.Status{"latest": {}}
	})
	rr := testutil.Serve(h, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "not ready" {
		t.Fatalf("unexpected error %v", resp["error"])
	}
}

func TestSnapshotReturnsStoredDocument(t *testing.T) {
	h, _ := syncedHandler(t)

	rr := testutil.Serve(h, http.MethodGet, "/snapshots/latest", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var doc map[string]any
	testutil.DecodeJSON(t, rr, &doc)
	info, ok := doc["matchInfo"].(map[string]any)
	if !ok || info["league"] != "الدوري" {
		t.Fatalf("unexpected matchInfo %v", doc["matchInfo"])
	}
	if _, ok := doc["updatedAt"].(string); !ok {
		t.Fatalf("expected updatedAt in stored document, got %v", doc)
	}
}

func TestSnapshotSection(t *testing.T) {
	h, _ := syncedHandler(t)

	rr := testutil.Serve(h, http.MethodGet, "/snapshots/latest?section=stats", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var stats map[string]map[string]string
	testutil.DecodeJSON(t, rr, &stats)
	if stats["Shots"]["home"] != "4" {
		t.Fatalf("unexpected stats %v", stats)
	}

	rr = testutil.Serve(h, http.MethodGet, "/snapshots/latest?section=leagues", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestSnapshotErrors(t *testing.T) {
	h, st := syncedHandler(t)

	cases := []struct {
		name string
		path string
		want int
	}{
		{"unknown target", "/snapshots/other", http.StatusNotFound},
		{"not yet synced", "/snapshots/today", http.StatusNotFound},
		{"missing name", "/snapshots/", http.StatusBadRequest},
		{"nested name", "/snapshots/latest/stats", http.StatusBadRequest},
		{"unknown route", "/games", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := testutil.Serve(h, http.MethodGet, tc.path, nil)
		if rr.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rr.Code)
		}
	}

	st.ReadErr = errors.New("disk gone")
	rr := testutil.Serve(h, http.MethodGet, "/snapshots/latest", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestSnapshotWithoutStore(t *testing.T) {
	st := teststubs.NewStubStore()
	target := newTarget(t, "latest", "matches/latest", snapshot.KindMatchDetail, &teststubs.StubProvider{}, st)
	h := NewHandler(nil, []Target{target}, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/snapshots/latest", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestTargetsListsStateAndLastCycle(t *testing.T) {
	h, _ := syncedHandler(t)

	rr := testutil.Serve(h, http.MethodGet, "/targets", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Targets []targetView `json:"targets"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Targets) != 2 {
		t.Fatalf("expected two targets, got %d", len(resp.Targets))
	}
	latest, today := resp.Targets[0], resp.Targets[1]
	if latest.Name != "latest" || latest.State != string(cycle.StateIdle) || latest.Granularity != "sectioned" {
		t.Fatalf("unexpected latest view %+v", latest)
	}
	if latest.LastCycle == nil || latest.LastCycle.Outcome != string(cycle.OutcomeApplied) || latest.LastCycle.UpdatedAt == "" {
		t.Fatalf("expected last cycle on latest, got %+v", latest.LastCycle)
	}
	if today.Name != "today" || today.LastCycle != nil || today.Granularity != "keyed-collection" {
		t.Fatalf("unexpected today view %+v", today)
	}
}
