package apply

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPurgeHookSendsCommit(t *testing.T) {
	var (
		gotMethod string
		gotBody   purgeRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode purge body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := NewPurgeHook(PurgeConfig{URL: srv.URL, Method: "purge"})
	commit := Commit{
		BasePath:  "matches/latest",
		Paths:     []string{"stats"},
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := hook.AfterCommit(context.Background(), commit); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotMethod != "PURGE" {
		t.Fatalf("expected PURGE method, got %q", gotMethod)
	}
	want := purgeRequest{Path: "matches/latest", Paths: []string{"stats"}, UpdatedAt: "2024-05-01T10:00:00.000Z"}
	if d := cmp.Diff(want, gotBody); d != "" {
		t.Fatalf("unexpected purge body (-want +got):\n%s", d)
	}
}

func TestPurgeHookDefaultsToPost(t *testing.T) {
	hook := NewPurgeHook(PurgeConfig{URL: "http://example.test"})
	if hook.method != http.MethodPost {
		t.Fatalf("expected POST default, got %q", hook.method)
	}
	if hook.Name() != "purge" {
		t.Fatalf("unexpected hook name %q", hook.Name())
	}
}

func TestPurgeHookReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewPurgeHook(PurgeConfig{URL: srv.URL}).AfterCommit(context.Background(), Commit{BasePath: "m"})
	if err == nil {
		t.Fatalf("expected error for 502 response")
	}
}

func TestPurgeHookReportsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if err := NewPurgeHook(PurgeConfig{URL: url, Timeout: time.Second}).AfterCommit(context.Background(), Commit{}); err == nil {
		t.Fatalf("expected error when purge endpoint is down")
	}
}
