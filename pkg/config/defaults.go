package config

import "time"

// Default values for configuration fields.
const (
	// Database defaults
	DefaultDatabaseDriver         = "mysql"
	DefaultDatabaseHost           = "localhost"
	DefaultDatabaseUser           = "root"
	DefaultMySQLPort              = 3306
	DefaultPostgresPort           = 5432
	DefaultPostgresSSLMode        = "disable"
	DefaultDatabaseConnectTimeout = 10 * time.Second
	DefaultDatabaseMaxOpenConns   = 4

	// Source defaults
	DefaultSourceTable      = "users"
	DefaultSourceLoggerName = "user_data"
	DefaultSourceLevel      = "info"

	// Redaction defaults
	DefaultRedactionSeparator = ";"
	DefaultRedactionPrefix    = "PREFIX"

	// Pipeline defaults
	DefaultPipelineOnInvalid     = "skip"
	DefaultPipelineMinLevel      = "info"
	DefaultPipelineWatchDebounce = 200 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "piilog"
	DefaultMetricsSubsystem     = "redaction"
	DefaultTracingSampler       = "ratio"
	DefaultTracingSampleRatio   = 1.0
	DefaultTracingExporter      = "otlp"
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingTimeout       = 10 * time.Second
	DefaultTracingServiceName   = "piilog"
)

// DefaultSourceColumns are the user table columns read by default.
var DefaultSourceColumns = []string{
	"name", "email", "phone", "ssn", "password", "ip", "last_login", "user_agent",
}

// DefaultRedactionFields are the PII fields redacted by default.
var DefaultRedactionFields = []string{"name", "email", "phone", "ssn", "password"}

// DefaultMetricsDurationBuckets are histogram buckets for run duration in seconds.
var DefaultMetricsDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDatabaseDriver
	}
	if !isSQLiteDriver(cfg.Database.Driver) {
		if cfg.Database.Host == "" {
			cfg.Database.Host = DefaultDatabaseHost
		}
		if cfg.Database.User == "" {
			cfg.Database.User = DefaultDatabaseUser
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = defaultPort(cfg.Database.Driver)
		}
	}
	if cfg.Database.Driver == "pgx" && cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultPostgresSSLMode
	}
	if cfg.Database.ConnectTimeout == 0 {
		cfg.Database.ConnectTimeout = DefaultDatabaseConnectTimeout
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDatabaseMaxOpenConns
	}

	// Source defaults
	if cfg.Source.Table == "" {
		cfg.Source.Table = DefaultSourceTable
	}
	if len(cfg.Source.Columns) == 0 {
		cfg.Source.Columns = append([]string(nil), DefaultSourceColumns...)
	}
	if cfg.Source.LoggerName == "" {
		cfg.Source.LoggerName = DefaultSourceLoggerName
	}
	if cfg.Source.Level == "" {
		cfg.Source.Level = DefaultSourceLevel
	}

	// Redaction defaults. A nil field list means "use the defaults"; an
	// explicit empty list in YAML disables redaction of named fields.
	if cfg.Redaction.Fields == nil {
		cfg.Redaction.Fields = append([]string(nil), DefaultRedactionFields...)
	}
	if cfg.Redaction.Separator == "" {
		cfg.Redaction.Separator = DefaultRedactionSeparator
	}
	if cfg.Redaction.Prefix == "" {
		cfg.Redaction.Prefix = DefaultRedactionPrefix
	}

	// Pipeline defaults
	if cfg.Pipeline.OnInvalid == "" {
		cfg.Pipeline.OnInvalid = DefaultPipelineOnInvalid
	}
	if cfg.Pipeline.MinLevel == "" {
		cfg.Pipeline.MinLevel = DefaultPipelineMinLevel
	}
	if cfg.Pipeline.WatchDebounce == 0 {
		cfg.Pipeline.WatchDebounce = DefaultPipelineWatchDebounce
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultMetricsDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}

func defaultPort(driver string) int {
	if driver == "pgx" {
		return DefaultPostgresPort
	}
	return DefaultMySQLPort
}

func isSQLiteDriver(driver string) bool {
	return driver == "sqlite" || driver == "sqlite3"
}
