package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"piilog-hq/piilog/pkg/config"
	"piilog-hq/piilog/pkg/formatter"
	"piilog-hq/piilog/pkg/sink"
	"piilog-hq/piilog/pkg/source"
	"piilog-hq/piilog/pkg/telemetry/logging"
	"piilog-hq/piilog/pkg/telemetry/metrics"
	"piilog-hq/piilog/pkg/telemetry/tracing"
)

// Policy decides what a run does with a record that cannot be formatted.
type Policy string

const (
	// PolicySkip counts and logs the record, then continues.
	PolicySkip Policy = "skip"
	// PolicyAbort stops the run and returns the error.
	PolicyAbort Policy = "abort"
)

// ParsePolicy parses an on_invalid setting.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicySkip, PolicyAbort:
		return Policy(s), nil
	case "":
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown invalid-record policy %q", s)
	}
}

// Summary describes one run.
type Summary struct {
	RunID    string
	Fetched  int
	Emitted  int
	Skipped  int
	Filtered int
	Duration time.Duration
}

// Progress observes a run record by record. Begin is called once the
// records are fetched, Step with the running counts after every record, and
// Done with the final summary whether or not the run failed.
type Progress interface {
	Begin(runID string, total int)
	Step(counts Summary)
	Done(summary *Summary, err error)
}

// describer is implemented by sources that know their database and table.
type describer interface {
	Driver() string
	Table() string
}

// Runner fetches records from a source and emits them through a Logger.
// A Runner may be run repeatedly; concurrent runs are allowed but the
// scheduler never starts one while another is in progress.
type Runner struct {
	source   source.RecordSource
	logger   *sink.Logger
	policy   Policy
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	log      *slog.Logger
	newID    func() string
	progress Progress

	mu      sync.Mutex
	last    *Summary
	lastErr error
}

// Option configures a Runner.
type Option func(*Runner)

// WithPolicy sets the invalid-record policy. The default is PolicySkip.
func WithPolicy(p Policy) Option {
	return func(r *Runner) {
		r.policy = p
	}
}

// WithMetrics records run and record metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) {
		r.metrics = c
	}
}

// WithTracer traces runs with t.
func WithTracer(t *tracing.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithProgress reports per-record progress to p.
func WithProgress(p Progress) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// WithIDGenerator replaces the run ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRunner creates a runner reading from src and emitting through logger.
func NewRunner(src source.RecordSource, logger *sink.Logger, opts ...Option) (*Runner, error) {
	if src == nil {
		return nil, errors.New("record source is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	r := &Runner{
		source: src,
		logger: logger,
		policy: PolicySkip,
		log:    slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := ParsePolicy(string(r.policy)); err != nil {
		return nil, err
	}
	if r.tracer == nil {
		t, err := tracing.New(&config.TracingConfig{})
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
		r.tracer = t
	}
	r.log = r.log.With("component", "pipeline.runner")

	return r, nil
}

// Run performs one fetch, format and emit pass. The returned summary is
// filled in as far as the run got, even when an error is returned.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: r.newID()}

	ctx = logging.WithRunID(ctx, summary.RunID)
	ctx, span := r.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String(tracing.AttrRunID, summary.RunID),
		attribute.String(tracing.AttrLogger, r.logger.Name()),
		attribute.StringSlice(tracing.AttrFields, r.logger.Formatter().Matcher().Fields().Names()),
	))
	defer span.End()

	r.log.DebugContext(ctx, "run started", "policy", string(r.policy))

	err := r.run(ctx, summary)
	summary.Duration = time.Since(start)
	if r.progress != nil {
		r.progress.Done(summary, err)
	}

	tracing.SetRunAttributes(span, summary.Fetched, summary.Emitted, summary.Skipped, summary.Filtered)
	tracing.SetStatus(span, err)

	status := metrics.RunSuccess
	if err != nil {
		status = metrics.RunFailed
	}
	r.metrics.RecordRun(status, summary.Duration, summary.Fetched)

	r.mu.Lock()
	r.last = summary
	r.lastErr = err
	r.mu.Unlock()

	attrs := []any{
		"fetched", summary.Fetched,
		"emitted", summary.Emitted,
		"skipped", summary.Skipped,
		"filtered", summary.Filtered,
		"duration", summary.Duration,
	}
	if err != nil {
		r.log.ErrorContext(ctx, "run failed", append(attrs, "error", err)...)
		return summary, err
	}
	r.log.InfoContext(ctx, "run completed", attrs...)
	return summary, nil
}

func (r *Runner) run(ctx context.Context, summary *Summary) error {
	records, err := r.fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch records: %w", err)
	}
	summary.Fetched = len(records)

	if r.progress != nil {
		r.progress.Begin(summary.RunID, len(records))
	}
	return r.emit(ctx, records, summary)
}

func (r *Runner) emit(ctx context.Context, records []formatter.Record, summary *Summary) error {
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec := &records[i]
		f := r.logger.Formatter()
		begin := time.Now()
		emitted, err := r.logger.HandleWith(ctx, f, rec)
		r.metrics.RecordFormatDuration(time.Since(begin))

		switch {
		case errors.Is(err, formatter.ErrInvalidRecord):
			if r.policy == PolicyAbort {
				return fmt.Errorf("record %d: %w", i, err)
			}
			summary.Skipped++
			r.metrics.RecordRecord(metrics.StatusSkipped)
			r.log.WarnContext(ctx, "skipping invalid record", "index", i, "error", err)
		case err != nil:
			return fmt.Errorf("failed to emit record %d: %w", i, err)
		case !emitted:
			summary.Filtered++
			r.metrics.RecordRecord(metrics.StatusFiltered)
		default:
			summary.Emitted++
			r.metrics.RecordRecord(metrics.StatusEmitted)
			r.countRedactions(f, rec.Message)
		}

		if r.progress != nil {
			r.progress.Step(*summary)
		}
	}

	return nil
}

func (r *Runner) fetch(ctx context.Context) ([]formatter.Record, error) {
	ctx, span := r.tracer.Start(ctx, "source.fetch")
	defer span.End()

	if d, ok := r.source.(describer); ok {
		tracing.SetSourceAttributes(span, d.Driver(), d.Table())
	}

	records, err := r.source.FetchRecords(ctx)
	tracing.SetStatus(span, err)
	return records, err
}

// countRedactions records how many values of each field f replaced.
func (r *Runner) countRedactions(f *formatter.Formatter, message string) {
	if !r.metrics.Enabled() {
		return
	}

	counts := make(map[string]int)
	for _, m := range f.Matcher().Find(message) {
		counts[m.Field]++
	}
	for field, n := range counts {
		r.metrics.RecordRedactions(field, n)
	}
}

// Last returns the summary and error of the most recent run. The summary is
// nil before the first run.
func (r *Runner) Last() (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.lastErr
}

// Close closes the source and the logger's sink.
func (r *Runner) Close() error {
	return errors.Join(r.source.Close(), r.logger.Close())
}
