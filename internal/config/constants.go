package config

import "time"

const (
	envPort            = "PORT"
	envPollInterval    = "POLL_INTERVAL"
	envProvider        = "PROVIDER"
	envKoooraMatchURL  = "KOOORA_MATCH_URL"
	envKoooraListURL   = "KOOORA_LIST_URL"
	envKoooraUserAgent = "KOOORA_USER_AGENT"
	envFetchTimeout    = "FETCH_TIMEOUT"
	envStoreBackend    = "STORE_BACKEND"
	envStorePath       = "STORE_PATH"
	envGranularity     = "GRANULARITY"
	envSnapshotPath    = "SNAPSHOT_PATH"
	envListPath        = "LIST_SNAPSHOT_PATH"
	envAllowOverwrite  = "ALLOW_FULL_OVERWRITE_ON_READ_ERROR"
	envPurgeURL        = "PURGE_URL"
	envPurgeMethod     = "PURGE_METHOD"
	envPurgeTimeout    = "PURGE_TIMEOUT"
	envAdminToken      = "ADMIN_TOKEN"
	envTargetsFile     = "TARGETS_FILE"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort = "4000"
	// Matches the two-minute cadence the scraper has always run at.
	defaultPollInterval = 2 * Duration(time.Minute)
	defaultProvider     = "fixture"
	defaultFetchTimeout = 15 * Duration(time.Second)
	defaultStoreBackend = "memory"
	defaultStorePath    = "data/football.json"
	defaultSnapshotPath = "matches/latest"
	defaultListPath     = "matches/today"
	defaultPurgeMethod  = "POST"
	defaultPurgeTimeout = 5 * Duration(time.Second)
	defaultMetricsPort  = "9090"
	defaultServiceName  = "football-sync-service"

	// KindMatchDetail and KindMatchList name the page variants a target can scrape.
	KindMatchDetail = "match_detail"
	KindMatchList   = "match_list"
)
