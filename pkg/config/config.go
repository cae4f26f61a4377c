package config

import "time"

// Config is the root configuration structure for piilog.
// It contains the record source, redaction settings, pipeline behavior and
// telemetry.
type Config struct {
	// Database contains connection settings for the personal-data database
	// that rows are read from.
	Database DatabaseConfig `yaml:"database"`

	// Source describes which table and columns become log records.
	Source SourceConfig `yaml:"source"`

	// Redaction contains the sensitive field set and line format settings.
	Redaction RedactionConfig `yaml:"redaction"`

	// Pipeline contains run behavior: invalid-record policy, minimum level,
	// scheduling and config reload.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DatabaseConfig contains connection settings for the record source.
type DatabaseConfig struct {
	// Driver selects the database/sql driver.
	// Options: "mysql", "pgx", "sqlite", "sqlite3"
	// Default: "mysql"
	Driver string `yaml:"driver"`

	// Host is the database server host. Ignored for sqlite drivers.
	// Default: "localhost"
	Host string `yaml:"host"`

	// Port is the database server port. Ignored for sqlite drivers.
	// Default: 3306 for mysql, 5432 for pgx
	Port int `yaml:"port"`

	// Name is the database (schema) name.
	// Default: ""
	Name string `yaml:"name"`

	// User is the database user.
	// Default: "root"
	User string `yaml:"user"`

	// Password is the database password. Prefer the
	// PERSONAL_DATA_DB_PASSWORD environment variable.
	Password string `yaml:"password"`

	// Path is the database file for the sqlite drivers.
	Path string `yaml:"path"`

	// SSLMode is passed to the pgx driver.
	// Default: "disable"
	SSLMode string `yaml:"ssl_mode"`

	// ConnectTimeout bounds connection establishment and the initial ping.
	// Default: 10s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`
}

// SourceConfig describes how rows become records.
type SourceConfig struct {
	// Table is the table rows are selected from.
	// Default: "users"
	Table string `yaml:"table"`

	// Columns are selected in order and rendered as column=value pairs.
	// Default: name, email, phone, ssn, password, ip, last_login, user_agent
	Columns []string `yaml:"columns"`

	// LoggerName is the record name stamped on every row.
	// Default: "user_data"
	LoggerName string `yaml:"logger_name"`

	// Level is the record level stamped on every row.
	// Default: "info"
	Level string `yaml:"level"`
}

// RedactionConfig contains the sensitive field set and line format.
type RedactionConfig struct {
	// Fields are the sensitive field names whose values are replaced.
	// Default: name, email, phone, ssn, password
	Fields []string `yaml:"fields"`

	// Separator delimits key=value pairs. Must be a single character.
	// Default: ";"
	Separator string `yaml:"separator"`

	// Prefix is rendered in brackets at the start of every line.
	// Default: "PREFIX"
	Prefix string `yaml:"prefix"`
}

// PipelineConfig contains run behavior.
type PipelineConfig struct {
	// OnInvalid decides what happens to a record that cannot be formatted.
	// Options: "skip", "abort"
	// Default: "skip"
	OnInvalid string `yaml:"on_invalid"`

	// MinLevel drops records below this level.
	// Default: "info"
	MinLevel string `yaml:"min_level"`

	// Schedule is an optional cron expression. When set, runs repeat on
	// this schedule instead of running once.
	Schedule string `yaml:"schedule"`

	// Watch reloads the redaction settings when the config file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period before a change is applied.
	// Default: 200ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains configuration for piilog's own diagnostics.
// Diagnostics always pass through the redactor.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled serves the Prometheus endpoint.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the metrics endpoint listens.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "piilog"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "redaction"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for run duration (seconds).
	// Default: [0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp", "stdout"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name in traces.
	// Default: "piilog"
	ServiceName string `yaml:"service_name"`
}
