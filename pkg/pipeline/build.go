package pipeline

import (
	"fmt"

	"piilog-hq/piilog/pkg/config"
	"piilog-hq/piilog/pkg/formatter"
	"piilog-hq/piilog/pkg/redact"
	"piilog-hq/piilog/pkg/sink"
)

// NewFormatter builds a formatter from redaction settings. Extra options
// are applied after the configured ones.
func NewFormatter(cfg *config.RedactionConfig, opts ...formatter.Option) (*formatter.Formatter, error) {
	base := []formatter.Option{
		formatter.WithSeparator(cfg.Separator),
		formatter.WithPrefix(cfg.Prefix),
	}

	f, err := formatter.New(redact.NewFieldSet(cfg.Fields...), append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build formatter: %w", err)
	}
	return f, nil
}

// NewLogger builds the record logger described by cfg, writing to s.
func NewLogger(cfg *config.Config, s sink.Sink, opts ...formatter.Option) (*sink.Logger, error) {
	minLevel, err := formatter.ParseLevel(cfg.Pipeline.MinLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum level: %w", err)
	}

	f, err := NewFormatter(&cfg.Redaction, opts...)
	if err != nil {
		return nil, err
	}

	return sink.NewLogger(cfg.Source.LoggerName, minLevel, f, s)
}

// RunnerOptions translates pipeline settings into runner options.
func RunnerOptions(cfg *config.PipelineConfig) ([]Option, error) {
	policy, err := ParsePolicy(cfg.OnInvalid)
	if err != nil {
		return nil, err
	}
	return []Option{WithPolicy(policy)}, nil
}
