package providers

import (
	"context"
	"log/slog"
	"time"
)

const defaultFetchTimeout = 15 * time.Second

// timeoutProvider bounds every fetch so a hung upstream surfaces as a FetchError.
type timeoutProvider struct {
	next    SnapshotProvider
	name    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewTimeoutProvider returns a SnapshotProvider that cancels fetches after timeout.
// A non-positive timeout uses the default.
func NewTimeoutProvider(next SnapshotProvider, name string, timeout time.Duration, logger *slog.Logger) SnapshotProvider {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &timeoutProvider{
		next:    next,
		name:    name,
		timeout: timeout,
		logger:  logger,
	}
}

func (p *timeoutProvider) FetchSnapshot(ctx context.Context, req Request) (any, error) {
	if p == nil || p.next == nil {
		return nil, ErrProviderUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type result struct {
		raw any
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := p.next.FetchSnapshot(ctx, req)
		done <- result{raw: raw, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, WrapFetchError(p.name, req.URL, res.err)
		}
		return res.raw, nil
	case <-ctx.Done():
		logFetch(ctx, p.logger, slog.LevelWarn, p.name, req, "provider fetch abandoned",
			slog.Duration("timeout", p.timeout))
		return nil, WrapFetchError(p.name, req.URL, ctx.Err())
	}
}
