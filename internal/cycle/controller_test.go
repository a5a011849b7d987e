package cycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/preston-bernstein/football-sync-service/internal/diff"
	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/metrics"
	"github.com/preston-bernstein/football-sync-service/internal/normalize"
	"github.com/preston-bernstein/football-sync-service/internal/providers"
	"github.com/preston-bernstein/football-sync-service/internal/store"
	"github.com/preston-bernstein/football-sync-service/internal/teststubs"
)

func detailTarget(g diff.Granularity) Target {
	return Target{
		Name:        "latest",
		Path:        "matches/latest",
		URL:         "https://www.kooora.com/match",
		Kind:        snapshot.KindMatchDetail,
		Granularity: g,
	}
}

func newController(t *testing.T, target Target, p providers.SnapshotProvider, st store.Store, opts Options) (*Controller, *[]State) {
	t.Helper()
	c, err := New(target, p, st, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var (
		mu     sync.Mutex
		states []State
	)
	c.onTransition = func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}
	return c, &states
}

func possession(home, away string) map[string]any {
	return map[string]any{
		"stats":  map[string]any{"Possession": map[string]any{"home": home, "away": away}},
		"events": []any{},
	}
}

func TestRunCycleFirstRunWritesRoot(t *testing.T) {
	st := teststubs.NewStubStore()
	p := &teststubs.StubProvider{Raw: possession("60%", "40%")}
	c, states := newController(t, detailTarget(diff.Sectioned), p, st, Options{})

	res, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Outcome != OutcomeApplied || res.UpdatedAt.IsZero() {
		t.Fatalf("unexpected result %+v", res)
	}
	if d := cmp.Diff([]string{diff.RootPath}, res.Paths); d != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]State{StateFetching, StateDiffing, StateApplying, StateIdle}, *states); d != "" {
		t.Fatalf("unexpected transitions (-want +got):\n%s", d)
	}
	if reqs := p.Requests(); len(reqs) != 1 || reqs[0].Kind != snapshot.KindMatchDetail || reqs[0].URL != "https://www.kooora.com/match" {
		t.Fatalf("unexpected provider requests %+v", reqs)
	}

	stored, _ := st.Read(context.Background(), "matches/latest/updatedAt")
	if stored == nil {
		t.Fatalf("expected updatedAt stored with the root document")
	}
	if c.State() != StateIdle || c.Running() {
		t.Fatalf("expected idle controller after cycle")
	}
	if c.LastResult().Outcome != OutcomeApplied {
		t.Fatalf("expected last result recorded")
	}
}

func TestRunCycleUnchangedScrapeWritesNothing(t *testing.T) {
	st := teststubs.NewStubStore()
	p := &teststubs.StubProvider{Raw: possession("60%", "40%")}
	c, _ := newController(t, detailTarget(diff.Sectioned), p, st, Options{})

	if _, err := c.RunCycle(context.Background()); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	res, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if res.Outcome != OutcomeNoChanges || len(res.Paths) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := len(st.Batches()); got != 1 {
		t.Fatalf("expected a single write, got %d", got)
	}
}

func TestRunCyclePatchesOnlyChangedSection(t *testing.T) {
	st := teststubs.NewStubStore()
	p := &teststubs.StubProvider{Records: []any{possession("60%", "40%"), possession("55%", "45%")}}
	c, _ := newController(t, detailTarget(diff.Sectioned), p, st, Options{})

	if _, err := c.RunCycle(context.Background()); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	res, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if d := cmp.Diff([]string{"stats"}, res.Paths); d != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", d)
	}

	batches := st.Batches()
	last := batches[len(batches)-1]
	if _, ok := last["matches/latest/events"]; ok {
		t.Fatalf("expected events not to be written")
	}
	want := map[string]any{"Possession": map[string]any{"home": "55%", "away": "45%"}}
	if d := cmp.Diff(want, last["matches/latest/stats"]); d != "" {
		t.Fatalf("unexpected stats write (-want +got):\n%s", d)
	}
	if _, ok := last["matches/latest/updatedAt"]; !ok {
		t.Fatalf("expected updatedAt in the same batch")
	}
}

func TestRunCycleMatchInfoChangeUnderKeyedCollection(t *testing.T) {
	st := teststubs.NewStubStore()
	first := map[string]any{"matchInfo": map[string]any{"homeTeam": map[string]any{"name": "A", "score": "0"}}}
	second := map[string]any{"matchInfo": map[string]any{"homeTeam": map[string]any{"name": "A", "score": "1"}}}
	p := &teststubs.StubProvider{Records: []any{first, second}}
	c, _ := newController(t, detailTarget(diff.KeyedCollection), p, st, Options{})

	if _, err := c.RunCycle(context.Background()); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	res, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if d := cmp.Diff([]string{"matchInfo"}, res.Paths); d != "" {
		t.Fatalf("unexpected paths (-want +got):\n%s", d)
	}
}

func TestRunCycleFetchErrorAbortsWithoutWrite(t *testing.T) {
	st := teststubs.NewStubStore()
	p := &teststubs.StubProvider{Err: errors.New("connection refused")}
	c, states := newController(t, detailTarget(diff.Sectioned), p, st, Options{ProviderName: "kooora"})

	res, err := c.RunCycle(context.Background())
	fe, ok := providers.AsFetchError(err)
	if !ok || fe.Provider != "kooora" {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if res.Outcome != OutcomeFailed || res.Err == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(st.Batches()) != 0 {
		t.Fatalf("expected no write after fetch failure")
	}
	if d := cmp.Diff([]State{StateFetching, StateError, StateIdle}, *states); d != "" {
		t.Fatalf("unexpected transitions (-want +got):\n%s", d)
	}
}

func TestRunCycleFetchTimeoutIsAnError(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	inner := &teststubs.StubProvider{Block: block, Raw: possession("1", "1")}
	p := providers.NewTimeoutProvider(inner, "kooora", 10*time.Millisecond, nil)
	c, _ := newController(t, detailTarget(diff.Sectioned), p, teststubs.NewStubStore(), Options{})

	_, err := c.RunCycle(context.Background())
	fe, ok := providers.AsFetchError(err)
	if !ok || !fe.Timeout {
		t.Fatalf("expected timeout fetch error, got %v", err)
	}
	if c.State() != StateIdle {
		t.Fatalf("expected idle after timeout, got %s", c.State())
	}
}

func TestRunCycleMalformedInput(t *testing.T) {
	st := teststubs.NewStubStore()
	p := &teststubs.StubProvider{Raw: []any{"not", "a", "record"}}
	c, states := newController(t, detailTarget(diff.Sectioned), p, st, Options{})

	_, err := c.RunCycle(context.Background())
	if _, ok := normalize.AsMalformedInputError(err); !ok {
		t.Fatalf("expected malformed input error, got %v", err)
	}
	if len(st.Batches()) != 0 {
		t.Fatalf("expected no write for malformed input")
	}
	if d := cmp.Diff([]State{StateFetching, StateDiffing, StateError, StateIdle}, *states); d != "" {
		t.Fatalf("unexpected transitions (-want +got):\n%s", d)
	}
}

func TestRunCycleReadErrorAbortsByDefault(t *testing.T) {
	st := teststubs.NewStubStore()
	st.ReadErr = errors.New("permission denied")
	p := &teststubs.StubProvider{Raw: possession("1", "1")}
	c, _ := newController(t, detailTarget(diff.Sectioned), p, st, Options{})

	_, err := c.RunCycle(context.Background())
	if _, ok := store.AsStoreReadError(err); !ok {
		t.Fatalf("expected store read error, got %v", err)
	}
	if p.Calls.Load() != 0 {
		t.Fatalf("expected no fetch after read failure")
	}
	if len(st.Batches()) != 0 {
		t.Fatalf("expected no write after read failure")
	}
}

func TestRunCycleReadErrorFallsBackWhenAllowed(t *testing.T) {
	st := teststubs.NewStubStore()
	st.ReadErr = errors.New("permission denied")
	p := &teststubs.StubProvider{Raw: possession("1", "1")}
	c, _ := newController(t, detailTarget(diff.Sectioned), p, st, Options{AllowFullOverwriteOnReadError: true})

	res, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if d := cmp.Diff([]string{diff.RootPath}, res.Paths); d != "" {
		t.Fatalf("expected full overwrite (-want +got):\n%s", d)
	}
}

func TestRunCycleRewritesNonRecordDocument(t *testing.T) {
	st := teststubs.NewStubStore()
	if err := st.MemoryStore.WriteBatch(context.Background(), map[string]any{"matches/latest": "corrupt"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	p := &teststubs.StubProvider{Raw: possession("1", "1")}
	c, _ := newController(t, detailTarget(diff.Sectioned), p, st, Options{})

	res, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("expected rewrite, got %v", err)
	}
	if d := cmp.Diff([]string{diff.RootPath}, res.Paths); d != "" {
		t.Fatalf("expected root rewrite (-want +got):\n%s", d)
	}
}

func TestRunCycleWriteErrorFails(t *testing.T) {
	st := teststubs.NewStubStore()
	st.WriteErr = errors.New("disk full")
	p := &teststubs.StubProvider{Raw: possession("1", "1")}
	rec := metrics.NewRecorder()
	c, states := newController(t, detailTarget(diff.Sectioned), p, st, Options{Metrics: rec})

	res, err := c.RunCycle(context.Background())
	if _, ok := store.AsStoreWriteError(err); !ok {
		t.Fatalf("expected store write error, got %v", err)
	}
	if res.Outcome != OutcomeFailed {
		t.Fatalf("unexpected outcome %s", res.Outcome)
	}
	if d := cmp.Diff([]State{StateFetching, StateDiffing, StateApplying, StateError, StateIdle}, *states); d != "" {
		t.Fatalf("unexpected transitions (-want +got):\n%s", d)
	}
	if got := rec.CycleSnapshot("latest").Outcomes[string(OutcomeFailed)]; got != 1 {
		t.Fatalf("expected failed cycle recorded, got %d", got)
	}
}

func TestRunCycleDropsOverlappingTrigger(t *testing.T) {
	st := teststubs.NewStubStore()
	p := &teststubs.StubProvider{
		Raw:    possession("60%", "40%"),
		Notify: make(chan struct{}),
		Block:  make(chan struct{}),
	}
	rec := metrics.NewRecorder()
	c, _ := newController(t, detailTarget(diff.Sectioned), p, st, Options{Metrics: rec})

	done := make(chan error, 1)
	go func() {
		_, err := c.RunCycle(context.Background())
		done <- err
	}()

	<-p.Notify
	if c.State() != StateFetching {
		t.Fatalf("expected first cycle to be fetching, got %s", c.State())
	}
	res, err := c.RunCycle(context.Background())
	if !errors.Is(err, ErrCycleInProgress) || res.Outcome != OutcomeSkipped {
		t.Fatalf("expected overlapping trigger to be skipped, got %+v %v", res, err)
	}

	close(p.Block)
	if err := <-done; err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if got := len(st.Batches()); got != 1 {
		t.Fatalf("expected exactly one write from the overlap window, got %d", got)
	}
	if got := p.Calls.Load(); got != 1 {
		t.Fatalf("expected one fetch, got %d", got)
	}
	outcomes := rec.CycleSnapshot("latest").Outcomes
	if outcomes[string(OutcomeSkipped)] != 1 || outcomes[string(OutcomeApplied)] != 1 {
		t.Fatalf("unexpected recorded outcomes %+v", outcomes)
	}
	if c.LastResult().Outcome != OutcomeApplied {
		t.Fatalf("expected skipped trigger not to replace last result")
	}
}

func TestNewValidatesTarget(t *testing.T) {
	st := store.NewMemoryStore()
	p := &teststubs.StubProvider{}
	cases := []struct {
		name   string
		target Target
	}{
		{"missing name", Target{Path: "m", Kind: snapshot.KindMatchDetail}},
		{"missing path", Target{Name: "n", Path: "/", Kind: snapshot.KindMatchDetail}},
		{"unknown kind", Target{Name: "n", Path: "m", Kind: "other"}},
		{"unknown granularity", Target{Name: "n", Path: "m", Kind: snapshot.KindMatchDetail, Granularity: "fine"}},
	}
	for _, tc := range cases {
		if _, err := New(tc.target, p, st, Options{}); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
	if _, err := New(detailTarget(""), nil, st, Options{}); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected missing provider error, got %v", err)
	}
	if _, err := New(detailTarget(""), p, nil, Options{}); err == nil {
		t.Fatalf("expected missing store error")
	}
}

func TestNewDefaultsGranularityByKind(t *testing.T) {
	st := store.NewMemoryStore()
	p := &teststubs.StubProvider{}

	detail, err := New(detailTarget(""), p, st, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if detail.Target().Granularity != diff.Sectioned {
		t.Fatalf("expected sectioned default, got %s", detail.Target().Granularity)
	}

	list, err := New(Target{Name: "today", Path: "/matches/today/", Kind: snapshot.KindMatchList}, p, st, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if list.Target().Granularity != diff.KeyedCollection || list.Target().Path != "matches/today" {
		t.Fatalf("unexpected list target %+v", list.Target())
	}
}
