package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by the legacy personal-data scripts. They
// keep working so existing deployments need no config file.
const (
	EnvDBHost     = "PERSONAL_DATA_DB_HOST"
	EnvDBName     = "PERSONAL_DATA_DB_NAME"
	EnvDBUsername = "PERSONAL_DATA_DB_USERNAME"
	EnvDBPassword = "PERSONAL_DATA_DB_PASSWORD"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and applies defaults without validating.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return finish(cfg)
}

// LoadDefault builds a configuration from defaults and environment
// variables only. It is used when no configuration file exists.
func LoadDefault() (*Config, error) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)

	// A driver override may change port defaults.
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Besides the PERSONAL_DATA_DB_* variables, overrides use the format
// PIILOG_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Database overrides
	if val := os.Getenv(EnvDBHost); val != "" {
		cfg.Database.Host = val
	}
	if val := os.Getenv(EnvDBName); val != "" {
		cfg.Database.Name = val
	}
	if val := os.Getenv(EnvDBUsername); val != "" {
		cfg.Database.User = val
	}
	if val := os.Getenv(EnvDBPassword); val != "" {
		cfg.Database.Password = val
	}
	if val := os.Getenv("PIILOG_DATABASE_DRIVER"); val != "" {
		if val != cfg.Database.Driver {
			// Port defaults depend on the driver; let ApplyDefaults pick again
			// unless the port is overridden explicitly below.
			cfg.Database.Port = 0
		}
		cfg.Database.Driver = val
	}
	if val := os.Getenv("PIILOG_DATABASE_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Database.Port = i
		}
	}
	if val := os.Getenv("PIILOG_DATABASE_PATH"); val != "" {
		cfg.Database.Path = val
	}
	if val := os.Getenv("PIILOG_DATABASE_SSL_MODE"); val != "" {
		cfg.Database.SSLMode = val
	}
	if val := os.Getenv("PIILOG_DATABASE_CONNECT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Database.ConnectTimeout = d
		}
	}

	// Source overrides
	if val := os.Getenv("PIILOG_SOURCE_TABLE"); val != "" {
		cfg.Source.Table = val
	}
	if val := os.Getenv("PIILOG_SOURCE_COLUMNS"); val != "" {
		cfg.Source.Columns = splitList(val)
	}
	if val := os.Getenv("PIILOG_SOURCE_LOGGER_NAME"); val != "" {
		cfg.Source.LoggerName = val
	}
	if val := os.Getenv("PIILOG_SOURCE_LEVEL"); val != "" {
		cfg.Source.Level = val
	}

	// Redaction overrides
	if val, ok := os.LookupEnv("PIILOG_REDACTION_FIELDS"); ok {
		cfg.Redaction.Fields = splitList(val)
	}
	if val := os.Getenv("PIILOG_REDACTION_SEPARATOR"); val != "" {
		cfg.Redaction.Separator = val
	}
	if val := os.Getenv("PIILOG_REDACTION_PREFIX"); val != "" {
		cfg.Redaction.Prefix = val
	}

	// Pipeline overrides
	if val := os.Getenv("PIILOG_PIPELINE_ON_INVALID"); val != "" {
		cfg.Pipeline.OnInvalid = val
	}
	if val := os.Getenv("PIILOG_PIPELINE_MIN_LEVEL"); val != "" {
		cfg.Pipeline.MinLevel = val
	}
	if val := os.Getenv("PIILOG_PIPELINE_SCHEDULE"); val != "" {
		cfg.Pipeline.Schedule = val
	}
	if val := os.Getenv("PIILOG_PIPELINE_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Pipeline.Watch = b
		}
	}

	// Telemetry overrides
	if val := os.Getenv("PIILOG_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PIILOG_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PIILOG_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PIILOG_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("PIILOG_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("PIILOG_TELEMETRY_TRACING_EXPORTER"); val != "" {
		cfg.Telemetry.Tracing.Exporter = val
	}
	if val := os.Getenv("PIILOG_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("PIILOG_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(val string) []string {
	out := []string{}
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
