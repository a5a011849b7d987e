package config

import "strings"

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Backend string // memory | fs | sqlite
	Path    string
}

// SyncConfig holds defaults shared by every sync target.
type SyncConfig struct {
	Granularity                   string
	SnapshotPath                  string
	ListSnapshotPath              string
	AllowFullOverwriteOnReadError bool
}

// PurgeConfig configures the post-commit cache purge hook. Empty URL disables it.
type PurgeConfig struct {
	URL     string
	Method  string
	Timeout Duration
}

func loadStore() StoreConfig {
	return StoreConfig{
		Backend: strings.ToLower(envOrDefault(envStoreBackend, defaultStoreBackend)),
		Path:    envOrDefault(envStorePath, defaultStorePath),
	}
}

func loadSync() SyncConfig {
	return SyncConfig{
		Granularity:                   strings.ToLower(envOrDefault(envGranularity, "")),
		SnapshotPath:                  envOrDefault(envSnapshotPath, defaultSnapshotPath),
		ListSnapshotPath:              envOrDefault(envListPath, defaultListPath),
		AllowFullOverwriteOnReadError: boolEnvOrDefault(envAllowOverwrite, false),
	}
}

func loadPurge() PurgeConfig {
	return PurgeConfig{
		URL:     envOrDefault(envPurgeURL, ""),
		Method:  strings.ToUpper(envOrDefault(envPurgeMethod, defaultPurgeMethod)),
		Timeout: durationEnvOrDefault(envPurgeTimeout, defaultPurgeTimeout),
	}
}
