package server

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/football-sync-service/internal/config"
	"github.com/preston-bernstein/football-sync-service/internal/logging"
	"github.com/preston-bernstein/football-sync-service/internal/store"
)

const (
	storeMemory = "memory"
	storeFS     = "fs"
	storeSQLite = "sqlite"
)

// openStore builds the configured backend. The returned close func is never nil.
func openStore(cfg config.StoreConfig, logger *slog.Logger) (store.Store, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(cfg.Backend) {
	case storeMemory, "":
		return store.NewMemoryStore(), noop, nil
	case storeFS:
		logging.Info(logger, "using filesystem store", logging.FieldStorePath, cfg.Path)
		return store.NewFSStore(cfg.Path), noop, nil
	case storeSQLite:
		s, err := store.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite store: %w", err)
		}
		logging.Info(logger, "using sqlite store", logging.FieldStorePath, cfg.Path)
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
