package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/football-sync-service/internal/cycle"
	"github.com/preston-bernstein/football-sync-service/internal/logging"
)

const defaultInterval = 2 * time.Minute

// CycleRunner runs one sync cycle for a target.
type CycleRunner interface {
	RunCycle(ctx context.Context) (cycle.Result, error)
}

// Poller triggers a cycle immediately on start and then once per interval.
type Poller struct {
	runner   CycleRunner
	name     string
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastOutcome         cycle.Outcome
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller for the named target with sane defaults.
func New(runner CycleRunner, name string, logger *slog.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		runner:   runner,
		name:     name,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Name returns the target this poller drives.
func (p *Poller) Name() string {
	return p.name
}

// Interval returns the trigger cadence.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		defer close(p.exited)
		logging.Info(p.logger, "poller started",
			logging.FieldTarget, p.name,
			logging.FieldDurationMS, p.interval.Milliseconds(),
		)
		p.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped", logging.FieldTarget, p.name)
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped", logging.FieldTarget, p.name)
				return
			case <-p.ticker.C:
				p.runOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop and waits, bounded by ctx, for a cycle that is
// still running to finish.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
	})

	p.startMu.Lock()
	started := p.started
	p.startMu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-p.exited:
		return nil
	case <-ctx.Done():
		logging.Warn(p.logger, "poller stop timed out with a cycle in flight", logging.FieldTarget, p.name)
		return ctx.Err()
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	start := p.now()
	p.recordAttempt(start)
	res, err := p.runner.RunCycle(ctx)
	switch {
	case errors.Is(err, cycle.ErrCycleInProgress):
		// A manual trigger holds the guard; the next tick tries again.
		return
	case err != nil:
		p.recordFailure(err, res.Outcome)
	default:
		p.recordSuccess(start, res.Outcome)
	}
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, outcome cycle.Outcome) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.LastOutcome = outcome
}

func (p *Poller) recordFailure(err error, outcome cycle.Outcome) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	p.status.LastError = err.Error()
	p.status.LastOutcome = outcome
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
