package config

import "time"

const (
	envPort         = "PORT"
	envAPIKey       = "API_KEY"
	envStoreDriver  = "STORE_DRIVER"
	envStoreDSN     = "STORE_DSN"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel     = "LOG_LEVEL"
	envLogFormat    = "LOG_FORMAT"

	envDataDir          = "COURTSIDE_DATA_DIR"
	envRemoteURL        = "COURTSIDE_REMOTE_URL"
	envClientAPIKey     = "COURTSIDE_API_KEY"
	envHTTPTimeout      = "COURTSIDE_HTTP_TIMEOUT"
	envAutoSyncInterval = "COURTSIDE_AUTOSYNC_INTERVAL"

	defaultPort        = "4000"
	defaultStoreDriver = "sqlite"
	defaultStoreDSN    = "data/courtside.db"
	defaultMetricsPort = "9090"
	defaultServiceName = "courtside-server"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"

	defaultDataDirName      = ".courtside"
	defaultRemoteURL        = "http://localhost:4000/api"
	defaultHTTPTimeout      = 15 * Duration(time.Second)
	defaultAutoSyncInterval = 5 * Duration(time.Minute)
)
