package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("default config should be valid, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "unsupported driver",
			modify:    func(c *Config) { c.Database.Driver = "oracle" },
			wantField: "database.driver",
		},
		{
			name:      "sqlite without path",
			modify:    func(c *Config) { c.Database.Driver = "sqlite" },
			wantField: "database.path",
		},
		{
			name:      "missing host",
			modify:    func(c *Config) { c.Database.Host = "" },
			wantField: "database.host",
		},
		{
			name:      "port out of range",
			modify:    func(c *Config) { c.Database.Port = 70000 },
			wantField: "database.port",
		},
		{
			name:      "table name injection",
			modify:    func(c *Config) { c.Source.Table = "users; DROP TABLE users" },
			wantField: "source.table",
		},
		{
			name:      "bad column",
			modify:    func(c *Config) { c.Source.Columns = []string{"name", "email,ssn"} },
			wantField: "source.columns[1]",
		},
		{
			name:      "no columns",
			modify:    func(c *Config) { c.Source.Columns = []string{} },
			wantField: "source.columns",
		},
		{
			name:      "bad source level",
			modify:    func(c *Config) { c.Source.Level = "loud" },
			wantField: "source.level",
		},
		{
			name:      "empty field name",
			modify:    func(c *Config) { c.Redaction.Fields = []string{"name", " "} },
			wantField: "redaction.fields[1]",
		},
		{
			name:      "multi-character separator",
			modify:    func(c *Config) { c.Redaction.Separator = "::" },
			wantField: "redaction.separator",
		},
		{
			name:      "unknown invalid-record policy",
			modify:    func(c *Config) { c.Pipeline.OnInvalid = "retry" },
			wantField: "pipeline.on_invalid",
		},
		{
			name:      "bad cron expression",
			modify:    func(c *Config) { c.Pipeline.Schedule = "every minute" },
			wantField: "pipeline.schedule",
		},
		{
			name:      "bad logging format",
			modify:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
		{
			name: "metrics path without slash",
			modify: func(c *Config) {
				c.Telemetry.Metrics.Enabled = true
				c.Telemetry.Metrics.Path = "metrics"
			},
			wantField: "telemetry.metrics.path",
		},
		{
			name: "unsupported trace exporter",
			modify: func(c *Config) {
				c.Telemetry.Tracing.Enabled = true
				c.Telemetry.Tracing.Exporter = "zipkin"
			},
			wantField: "telemetry.tracing.exporter",
		},
		{
			name:      "sample ratio out of range",
			modify:    func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			wantField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidate_AllowsMetacharacterFieldNames(t *testing.T) {
	cfg := validConfig()
	cfg.Redaction.Fields = []string{"e.mail"}
	if err := Validate(cfg); err != nil {
		t.Errorf("field names are not checked for metacharacters, got: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("single Error() = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	got := multi.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("multi Error() = %q", got)
	}

	if got := (ValidationError{}).Error(); got != "configuration validation failed" {
		t.Errorf("empty Error() = %q", got)
	}
}
