package config

import "strings"

// Config holds runtime configuration for the server.
type Config struct {
	Port         string
	PollInterval Duration
	Provider     string
	Kooora       KoooraConfig
	Store        StoreConfig
	Sync         SyncConfig
	Purge        PurgeConfig
	AdminToken   string
	TargetsFile  string
	Log          LogConfig
	Metrics      MetricsConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		PollInterval: durationEnvOrDefault(envPollInterval, defaultPollInterval),
		Provider:     strings.ToLower(envOrDefault(envProvider, defaultProvider)),
		Kooora:       loadKooora(),
		Store:        loadStore(),
		Sync:         loadSync(),
		Purge:        loadPurge(),
		AdminToken:   envOrDefault(envAdminToken, ""),
		TargetsFile:  envOrDefault(envTargetsFile, ""),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, ""),
			Format: envOrDefault(envLogFormat, ""),
		},
		Metrics: loadMetrics(),
	}
}
