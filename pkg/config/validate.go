package config

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "database.driver").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// identifier matches table and column names that are safe to interpolate
// into the source query.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var (
	validDrivers    = map[string]bool{"mysql": true, "pgx": true, "sqlite": true, "sqlite3": true}
	validLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true, "critical": true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "text": true}
	validOnInvalid  = map[string]bool{"skip": true, "abort": true}
	validSamplers   = map[string]bool{"always": true, "never": true, "ratio": true}
	validExporters  = map[string]bool{"otlp": true, "stdout": true}
)

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateDatabase(&cfg.Database)...)
	errs = append(errs, validateSource(&cfg.Source)...)
	errs = append(errs, validateRedaction(&cfg.Redaction)...)
	errs = append(errs, validatePipeline(&cfg.Pipeline)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateDatabase validates database connection settings.
func validateDatabase(cfg *DatabaseConfig) []FieldError {
	var errs []FieldError

	if !validDrivers[cfg.Driver] {
		errs = append(errs, FieldError{
			Field:   "database.driver",
			Message: fmt.Sprintf("unsupported driver %q: must be 'mysql', 'pgx', 'sqlite', or 'sqlite3'", cfg.Driver),
		})
		return errs
	}

	if isSQLiteDriver(cfg.Driver) {
		if cfg.Path == "" {
			errs = append(errs, FieldError{
				Field:   "database.path",
				Message: "path is required for sqlite drivers",
			})
		}
	} else {
		if cfg.Host == "" {
			errs = append(errs, FieldError{
				Field:   "database.host",
				Message: "host is required",
			})
		}
		if cfg.Port < 1 || cfg.Port > 65535 {
			errs = append(errs, FieldError{
				Field:   "database.port",
				Message: fmt.Sprintf("port %d out of range 1-65535", cfg.Port),
			})
		}
	}

	if cfg.ConnectTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "database.connect_timeout",
			Message: "connect timeout must be positive",
		})
	}
	if cfg.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "database.max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}

	return errs
}

// validateSource validates the table, columns and record metadata.
func validateSource(cfg *SourceConfig) []FieldError {
	var errs []FieldError

	if !identifier.MatchString(cfg.Table) {
		errs = append(errs, FieldError{
			Field:   "source.table",
			Message: fmt.Sprintf("invalid table name %q", cfg.Table),
		})
	}

	if len(cfg.Columns) == 0 {
		errs = append(errs, FieldError{
			Field:   "source.columns",
			Message: "at least one column is required",
		})
	}
	for i, col := range cfg.Columns {
		if !identifier.MatchString(col) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("source.columns[%d]", i),
				Message: fmt.Sprintf("invalid column name %q", col),
			})
		}
	}

	if cfg.LoggerName == "" {
		errs = append(errs, FieldError{
			Field:   "source.logger_name",
			Message: "logger name is required",
		})
	}
	if !validLevels[strings.ToLower(cfg.Level)] {
		errs = append(errs, FieldError{
			Field:   "source.level",
			Message: fmt.Sprintf("invalid level %q", cfg.Level),
		})
	}

	return errs
}

// validateRedaction validates the field set and separator. Field names are
// not checked for regex metacharacters.
func validateRedaction(cfg *RedactionConfig) []FieldError {
	var errs []FieldError

	for i, f := range cfg.Fields {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("redaction.fields[%d]", i),
				Message: "field name must not be empty",
			})
		}
	}

	if utf8.RuneCountInString(cfg.Separator) != 1 {
		errs = append(errs, FieldError{
			Field:   "redaction.separator",
			Message: fmt.Sprintf("separator %q must be exactly one character", cfg.Separator),
		})
	}

	return errs
}

// validatePipeline validates run behavior.
func validatePipeline(cfg *PipelineConfig) []FieldError {
	var errs []FieldError

	if !validOnInvalid[cfg.OnInvalid] {
		errs = append(errs, FieldError{
			Field:   "pipeline.on_invalid",
			Message: fmt.Sprintf("invalid policy %q: must be 'skip' or 'abort'", cfg.OnInvalid),
		})
	}
	if !validLevels[strings.ToLower(cfg.MinLevel)] {
		errs = append(errs, FieldError{
			Field:   "pipeline.min_level",
			Message: fmt.Sprintf("invalid level %q", cfg.MinLevel),
		})
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "pipeline.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}
	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{
			Field:   "pipeline.watch_debounce",
			Message: "watch debounce must be positive",
		})
	}

	return errs
}

// validateTelemetry validates logging, metrics and tracing.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !validLogLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}
	if !validLogFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: "listen address is required when metrics are enabled",
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with '/'",
			})
		}
	}

	if cfg.Tracing.Enabled {
		if !validExporters[cfg.Tracing.Exporter] {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.exporter",
				Message: fmt.Sprintf("unsupported exporter %q: must be 'otlp' or 'stdout'", cfg.Tracing.Exporter),
			})
		}
		if cfg.Tracing.Exporter == "otlp" && cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "tracing endpoint is required for the otlp exporter",
			})
		}
		if !validSamplers[cfg.Tracing.Sampler] {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
			})
		}
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}
