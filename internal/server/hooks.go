package server

import (
	"github.com/preston-bernstein/football-sync-service/internal/apply"
	"github.com/preston-bernstein/football-sync-service/internal/config"
)

func buildHooks(cfg config.PurgeConfig) []apply.Hook {
	if cfg.URL == "" {
		return nil
	}
	return []apply.Hook{apply.NewPurgeHook(apply.PurgeConfig{
		URL:     cfg.URL,
		Method:  cfg.Method,
		Timeout: cfg.Timeout,
	})}
}
