package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

type targetStats struct {
	outcomes     map[string]int
	patchEntries int
	lastDuration time.Duration
}

// Recorder captures lightweight, in-memory metrics about provider calls and
// sync cycles, mirrored to OpenTelemetry when configured.
type Recorder struct {
	mu      sync.Mutex
	stats   map[string]*providerStats
	targets map[string]*targetStats
	hooks   map[string]int
	otel    *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:   make(map[string]*providerStats),
		targets: make(map[string]*targetStats),
		hooks:   make(map[string]int),
		otel:    otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordCycle tracks one finished sync cycle for a target.
func (r *Recorder) RecordCycle(target, outcome string, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureTarget(target)
	stats.outcomes[outcome]++
	stats.lastDuration = duration
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCycle(target, outcome, duration)
	}
}

// RecordPatchEntries tracks how many paths a cycle wrote.
func (r *Recorder) RecordPatchEntries(target string, entries int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureTarget(target).patchEntries += entries
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordPatchEntries(target, entries)
	}
}

// RecordHookFailure counts post-commit hooks that returned an error.
func (r *Recorder) RecordHookFailure(hook string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.hooks[hook]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordHookFailure(hook)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// HookFailures returns the failures recorded for a hook.
func (r *Recorder) HookFailures(hook string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hooks[hook]
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		LastCallLatency: stats.lastCallLatency,
	}
}

// CycleSnapshot is a copy of the cycle stats for one target.
type CycleSnapshot struct {
	Outcomes     map[string]int
	PatchEntries int
	LastDuration time.Duration
}

func (r *Recorder) CycleSnapshot(target string) CycleSnapshot {
	out := CycleSnapshot{Outcomes: map[string]int{}}
	if r == nil {
		return out
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.targets[target]
	if !ok {
		return out
	}
	for k, v := range stats.outcomes {
		out.Outcomes[k] = v
	}
	out.PatchEntries = stats.patchEntries
	out.LastDuration = stats.lastDuration
	return out
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ensureStats and ensureTarget expect r.mu to be held.
func (r *Recorder) ensureStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) ensureTarget(target string) *targetStats {
	stats, ok := r.targets[target]
	if !ok {
		stats = &targetStats{outcomes: make(map[string]int)}
		r.targets[target] = stats
	}
	return stats
}
