package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/football-sync-service/internal/logging"
)

// AttemptRecorder receives one observation per provider call.
type AttemptRecorder interface {
	RecordProviderAttempt(provider string, duration time.Duration, err error)
}

// instrumentedProvider records latency and failures of every fetch.
type instrumentedProvider struct {
	inner    SnapshotProvider
	name     string
	recorder AttemptRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewInstrumentedProvider wraps inner with metrics and logging. Failed fetches
// are not retried; the next scheduled cycle tries again.
func NewInstrumentedProvider(inner SnapshotProvider, name string, recorder AttemptRecorder, logger *slog.Logger) SnapshotProvider {
	return &instrumentedProvider{
		inner:    inner,
		name:     name,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *instrumentedProvider) FetchSnapshot(ctx context.Context, req Request) (any, error) {
	if p.inner == nil {
		return nil, ErrProviderUnavailable
	}
	start := p.now()
	raw, err := p.inner.FetchSnapshot(ctx, req)
	elapsed := p.now().Sub(start)

	if p.recorder != nil {
		p.recorder.RecordProviderAttempt(p.name, elapsed, err)
	}

	logger := logging.FromContext(ctx, p.logger)
	if err != nil {
		logFetch(ctx, logger, slog.LevelWarn, p.name, req, "provider fetch failed",
			slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
			slog.Any(logging.FieldError, err))
		return nil, err
	}
	logFetch(ctx, logger, slog.LevelDebug, p.name, req, "provider fetch complete",
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()))
	return raw, nil
}
