// Package cycle runs one read, fetch, diff and apply pass for a sync target.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/football-sync-service/internal/apply"
	"github.com/preston-bernstein/football-sync-service/internal/diff"
	"github.com/preston-bernstein/football-sync-service/internal/docpath"
	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/logging"
	"github.com/preston-bernstein/football-sync-service/internal/normalize"
	"github.com/preston-bernstein/football-sync-service/internal/providers"
	"github.com/preston-bernstein/football-sync-service/internal/store"
)

// Target is one page scraped into one document of the store.
type Target struct {
	Name        string
	Path        string
	URL         string
	Kind        snapshot.Kind
	Granularity diff.Granularity
}

// Metrics receives cycle observations.
type Metrics interface {
	RecordCycle(target, outcome string, duration time.Duration)
	RecordPatchEntries(target string, entries int)
	RecordHookFailure(hook string)
}

// Options configures a Controller.
type Options struct {
	// AllowFullOverwriteOnReadError treats an unreadable stored document as
	// absent instead of aborting the cycle.
	AllowFullOverwriteOnReadError bool
	ProviderName                  string
	Hooks                         []apply.Hook
	Logger                        *slog.Logger
	Metrics                       Metrics
}

// Result reports one cycle.
type Result struct {
	Target    string
	Outcome   Outcome
	Paths     []string
	UpdatedAt time.Time
	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

// Controller orchestrates cycles for one target. At most one cycle runs at a time.
type Controller struct {
	target     Target
	provider   providers.SnapshotProvider
	store      store.Store
	normalizer *normalize.Normalizer
	differ     *diff.Differ
	applier    *apply.Applier

	allowOverwrite bool
	providerName   string
	logger         *slog.Logger
	metrics        Metrics
	now            func() time.Time

	running      atomic.Bool
	state        atomic.Value
	onTransition func(State)

	lastMu sync.RWMutex
	last   Result
}

// New validates target and builds its controller. An empty granularity
// defaults to keyed-collection for match lists and sectioned otherwise.
func New(target Target, provider providers.SnapshotProvider, st store.Store, opts Options) (*Controller, error) {
	if provider == nil {
		return nil, providers.ErrProviderUnavailable
	}
	if st == nil {
		return nil, errors.New("cycle: store required")
	}
	target.Name = strings.TrimSpace(target.Name)
	if target.Name == "" {
		return nil, errors.New("cycle: target name required")
	}
	target.Path = docpath.Join(target.Path)
	if target.Path == "" {
		return nil, fmt.Errorf("cycle: target %s: store path required", target.Name)
	}
	schema, err := snapshot.SchemaFor(target.Kind)
	if err != nil {
		return nil, fmt.Errorf("cycle: target %s: %w", target.Name, err)
	}
	if target.Granularity == "" {
		target.Granularity = diff.Sectioned
		if target.Kind == snapshot.KindMatchList {
			target.Granularity = diff.KeyedCollection
		}
	}
	differ, err := diff.New(target.Granularity)
	if err != nil {
		return nil, fmt.Errorf("cycle: target %s: %w", target.Name, err)
	}

	providerName := opts.ProviderName
	if providerName == "" {
		providerName = "provider"
	}
	var hookRecorder apply.HookRecorder
	if opts.Metrics != nil {
		hookRecorder = opts.Metrics
	}

	c := &Controller{
		target:     target,
		provider:   provider,
		store:      st,
		normalizer: normalize.New(schema),
		differ:     differ,
		applier: apply.New(st, apply.Options{
			Logger:   opts.Logger,
			Hooks:    opts.Hooks,
			Recorder: hookRecorder,
		}),
		allowOverwrite: opts.AllowFullOverwriteOnReadError,
		providerName:   providerName,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		now:            time.Now,
	}
	c.state.Store(StateIdle)
	return c, nil
}

// Target returns the validated target.
func (c *Controller) Target() Target {
	return c.target
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state.Load().(State)
}

// Running reports whether a cycle is in flight.
func (c *Controller) Running() bool {
	return c.running.Load()
}

// LastResult returns the most recent finished cycle, excluding skipped triggers.
func (c *Controller) LastResult() Result {
	c.lastMu.RLock()
	defer c.lastMu.RUnlock()
	return c.last
}

// RunCycle performs one full cycle. A trigger while another cycle is running
// returns a skipped result and ErrCycleInProgress without touching the store.
// Every error is contained here; the controller is Idle again on return.
func (c *Controller) RunCycle(ctx context.Context) (Result, error) {
	start := c.now()
	if !c.running.CompareAndSwap(false, true) {
		res := Result{Target: c.target.Name, Outcome: OutcomeSkipped, StartedAt: start, Err: ErrCycleInProgress}
		c.record(ctx, res)
		return res, ErrCycleInProgress
	}
	defer c.running.Store(false)

	res := c.run(ctx)
	res.Target = c.target.Name
	res.StartedAt = start
	res.Duration = c.now().Sub(start)
	if res.Err != nil {
		c.transition(StateError)
	}
	c.transition(StateIdle)

	c.lastMu.Lock()
	c.last = res
	c.lastMu.Unlock()

	c.record(ctx, res)
	return res, res.Err
}

func (c *Controller) run(ctx context.Context) Result {
	c.transition(StateFetching)
	storedRaw, err := c.store.Read(ctx, c.target.Path)
	if err != nil {
		if _, ok := store.AsStoreReadError(err); !ok {
			err = &store.StoreReadError{Backend: "unknown", Path: c.target.Path, Err: err}
		}
		if !c.allowOverwrite {
			return failed(err)
		}
		logging.Warn(c.log(ctx), "store read failed; falling back to full overwrite",
			logging.FieldTarget, c.target.Name,
			logging.FieldStorePath, c.target.Path,
			logging.FieldError, err,
		)
		storedRaw = nil
	}

	raw, err := c.provider.FetchSnapshot(ctx, providers.Request{Kind: c.target.Kind, URL: c.target.URL})
	if err != nil {
		return failed(providers.WrapFetchError(c.providerName, c.target.URL, err))
	}

	c.transition(StateDiffing)
	next, err := c.normalizer.Normalize(raw)
	if err != nil {
		return failed(err)
	}
	old := c.stored(ctx, storedRaw)
	patch := c.differ.Diff(old, next)
	if patch.IsEmpty() {
		return Result{Outcome: OutcomeNoChanges, Paths: []string{}}
	}

	c.transition(StateApplying)
	commit, err := c.applier.Apply(ctx, c.target.Path, patch)
	if err != nil {
		return failed(err)
	}
	return Result{Outcome: OutcomeApplied, Paths: commit.Paths, UpdatedAt: commit.UpdatedAt}
}

// stored normalizes the previously written document. A value that is not a
// record is treated as absent so the next write repairs it.
func (c *Controller) stored(ctx context.Context, raw any) *snapshot.Snapshot {
	if raw == nil {
		return nil
	}
	old, err := c.normalizer.Normalize(raw)
	if err != nil {
		logging.Warn(c.log(ctx), "stored document unusable; rewriting",
			logging.FieldTarget, c.target.Name,
			logging.FieldStorePath, c.target.Path,
			logging.FieldError, err,
		)
		return nil
	}
	return &old
}

func failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: err}
}

func (c *Controller) transition(s State) {
	c.state.Store(s)
	if c.onTransition != nil {
		c.onTransition(s)
	}
}

func (c *Controller) record(ctx context.Context, res Result) {
	if c.metrics != nil {
		c.metrics.RecordCycle(c.target.Name, string(res.Outcome), res.Duration)
		if res.Outcome == OutcomeApplied {
			c.metrics.RecordPatchEntries(c.target.Name, len(res.Paths))
		}
	}

	logger := c.log(ctx)
	args := []any{
		logging.FieldTarget, c.target.Name,
		logging.FieldGranularity, string(c.target.Granularity),
		logging.FieldOutcome, string(res.Outcome),
		logging.FieldDurationMS, res.Duration.Milliseconds(),
	}
	switch res.Outcome {
	case OutcomeApplied:
		logging.Info(logger, "snapshot updated", append(args, logging.FieldPatchEntries, len(res.Paths))...)
	case OutcomeNoChanges:
		logging.Debug(logger, "no changes", args...)
	case OutcomeSkipped:
		logging.Warn(logger, "cycle skipped; previous cycle still running", args...)
	default:
		logging.Error(logger, "cycle failed", res.Err, args...)
	}
}

func (c *Controller) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, c.logger)
}
