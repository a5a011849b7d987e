package server

import (
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/football-sync-service/internal/apply"
	"github.com/preston-bernstein/football-sync-service/internal/config"
	"github.com/preston-bernstein/football-sync-service/internal/cycle"
	"github.com/preston-bernstein/football-sync-service/internal/diff"
	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/poller"
	"github.com/preston-bernstein/football-sync-service/internal/providers"
	"github.com/preston-bernstein/football-sync-service/internal/store"
)

type targetDeps struct {
	provider     providers.SnapshotProvider
	providerName string
	store        store.Store
	hooks        []apply.Hook
	logger       *slog.Logger
	metrics      cycle.Metrics
	allowRewrite bool
}

// buildTargets creates one controller and one poller per configured target.
func buildTargets(targets []config.TargetConfig, deps targetDeps) ([]*cycle.Controller, []Poller, error) {
	controllers := make([]*cycle.Controller, 0, len(targets))
	pollers := make([]Poller, 0, len(targets))
	for _, tc := range targets {
		kind, err := snapshot.ParseKind(tc.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("target %s: %w", tc.Name, err)
		}
		var granularity diff.Granularity
		if tc.Granularity != "" {
			if granularity, err = diff.ParseGranularity(tc.Granularity); err != nil {
				return nil, nil, fmt.Errorf("target %s: %w", tc.Name, err)
			}
		}

		ctrl, err := cycle.New(cycle.Target{
			Name:        tc.Name,
			Path:        tc.Path,
			URL:         tc.URL,
			Kind:        kind,
			Granularity: granularity,
		}, deps.provider, deps.store, cycle.Options{
			AllowFullOverwriteOnReadError: deps.allowRewrite,
			ProviderName:                  deps.providerName,
			Hooks:                         deps.hooks,
			Logger:                        deps.logger,
			Metrics:                       deps.metrics,
		})
		if err != nil {
			return nil, nil, err
		}
		controllers = append(controllers, ctrl)
		pollers = append(pollers, poller.New(ctrl, tc.Name, deps.logger, tc.Interval))
	}
	return controllers, pollers, nil
}
