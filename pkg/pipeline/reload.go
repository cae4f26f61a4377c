package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"piilog-hq/piilog/pkg/config"
	"piilog-hq/piilog/pkg/formatter"
	"piilog-hq/piilog/pkg/sink"
	"piilog-hq/piilog/pkg/telemetry/metrics"
)

// Reloader rebuilds a Logger's formatter when the configuration file
// changes. Only the redaction settings are applied; other changes need a
// restart.
type Reloader struct {
	path    string
	target  *sink.Logger
	metrics *metrics.Collector
	log     *slog.Logger
	opts    []formatter.Option
	watcher *config.Watcher
}

// NewReloader watches the configuration file at path and swaps new
// formatters into target. Formatter options (a fixed clock in tests) are
// applied to every rebuilt formatter.
func NewReloader(path string, debounce time.Duration, target *sink.Logger, collector *metrics.Collector, logger *slog.Logger, opts ...formatter.Option) (*Reloader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := config.NewWatcher(path, debounce, logger)
	if err != nil {
		return nil, err
	}

	return &Reloader{
		path:    path,
		target:  target,
		metrics: collector,
		log:     logger.With("component", "pipeline.reloader"),
		opts:    opts,
		watcher: w,
	}, nil
}

// Reload loads the configuration file and applies its redaction settings.
// An invalid file leaves the current formatter in place.
func (r *Reloader) Reload() error {
	cfg, err := config.LoadConfigWithEnvOverrides(r.path)
	if err != nil {
		r.metrics.RecordReload(false)
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	f, err := NewFormatter(&cfg.Redaction, r.opts...)
	if err != nil {
		r.metrics.RecordReload(false)
		return err
	}

	r.target.SetFormatter(f)
	r.metrics.RecordReload(true)
	r.log.Info("redaction settings reloaded",
		"fields", f.Matcher().Fields().Names(),
		"separator", f.Matcher().Separator(),
		"prefix", f.Prefix(),
	)
	return nil
}

// Watch blocks until ctx is cancelled or Stop is called.
func (r *Reloader) Watch(ctx context.Context) error {
	return r.watcher.Watch(ctx, r.Reload)
}

// Stop stops watching.
func (r *Reloader) Stop() error {
	return r.watcher.Stop()
}
