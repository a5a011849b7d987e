package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/football-sync-service/internal/config"
	"github.com/preston-bernstein/football-sync-service/internal/providers"
	"github.com/preston-bernstein/football-sync-service/internal/providers/fixture"
	"github.com/preston-bernstein/football-sync-service/internal/providers/kooora"
)

const (
	providerFixture = "fixture"
	providerKooora  = "kooora"
)

// providerFactory assembles the scrape provider with shared wrappers (timeout + instrumentation).
type providerFactory struct {
	logger   *slog.Logger
	recorder providers.AttemptRecorder
}

func newProviderFactory(logger *slog.Logger, recorder providers.AttemptRecorder) providerFactory {
	return providerFactory{logger: logger, recorder: recorder}
}

// build returns the wrapped provider and the name it reports in logs and metrics.
func (f providerFactory) build(cfg config.Config) (providers.SnapshotProvider, string) {
	base, name := selectProvider(cfg, f.logger)
	return f.wrap(base, name, cfg.Kooora.FetchTimeout), name
}

func (f providerFactory) wrap(base providers.SnapshotProvider, name string, timeout time.Duration) providers.SnapshotProvider {
	timed := providers.NewTimeoutProvider(base, name, timeout, f.logger)
	return providers.NewInstrumentedProvider(timed, name, f.recorder, f.logger)
}

func selectProvider(cfg config.Config, logger *slog.Logger) (providers.SnapshotProvider, string) {
	switch strings.ToLower(cfg.Provider) {
	case providerFixture, "":
		return fixture.New(), providerFixture
	case providerKooora:
		return kooora.NewClient(kooora.Config{
			UserAgent: cfg.Kooora.UserAgent,
			Timeout:   cfg.Kooora.FetchTimeout,
		}), providerKooora
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New(), providerFixture
	}
}
