package health

import (
	"context"
	"errors"
	"time"

	"piilog-hq/piilog/pkg/pipeline"
)

// Readiness status values.
const (
	StatusReady    = "ready"
	StatusDegraded = "degraded"
)

// DefaultPingTimeout bounds the database ping when New is given zero.
const DefaultPingTimeout = 5 * time.Second

// ErrPingTimeout replaces the context error when the ping outlives its budget.
var ErrPingTimeout = errors.New("source ping timed out")

// Pinger is the personal-data database as seen by readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunReporter exposes the outcome of the most recent pipeline run.
type RunReporter interface {
	Last() (*pipeline.Summary, error)
}

// SourceState is the result of pinging the database.
type SourceState struct {
	Reachable bool          `json:"reachable"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency_ns"`
}

// RunState describes the most recent run.
type RunState struct {
	RunID    string `json:"run_id,omitempty"`
	Fetched  int    `json:"fetched"`
	Emitted  int    `json:"emitted"`
	Skipped  int    `json:"skipped"`
	Filtered int    `json:"filtered"`
	Error    string `json:"error,omitempty"`
}

// Report is the readiness verdict. LastRun is nil until the first run ends.
type Report struct {
	Status    string      `json:"status"`
	Source    SourceState `json:"source"`
	LastRun   *RunState   `json:"last_run,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Ready reports whether the report carries no failure.
func (r Report) Ready() bool {
	return r.Status == StatusReady
}

// Checker decides readiness of a scheduled piilog process: the database
// must answer a ping and the last run, if any, must have succeeded.
type Checker struct {
	source      Pinger
	runs        RunReporter
	pingTimeout time.Duration
}

// New creates a checker. runs may be nil, in which case only the database
// is consulted.
func New(source Pinger, runs RunReporter, pingTimeout time.Duration) *Checker {
	if pingTimeout <= 0 {
		pingTimeout = DefaultPingTimeout
	}
	return &Checker{
		source:      source,
		runs:        runs,
		pingTimeout: pingTimeout,
	}
}

// Readiness pings the database and inspects the last run.
func (c *Checker) Readiness(ctx context.Context) Report {
	report := Report{
		Status: StatusReady,
		Source: c.ping(ctx),
	}
	if !report.Source.Reachable {
		report.Status = StatusDegraded
	}

	if run := c.lastRun(); run != nil {
		report.LastRun = run
		if run.Error != "" {
			report.Status = StatusDegraded
		}
	}

	report.Timestamp = time.Now()
	return report
}

func (c *Checker) ping(ctx context.Context) SourceState {
	pingCtx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()

	start := time.Now()
	err := c.source.Ping(pingCtx)
	state := SourceState{Latency: time.Since(start)}

	switch {
	case err == nil:
		state.Reachable = true
	case errors.Is(err, context.DeadlineExceeded) || pingCtx.Err() == context.DeadlineExceeded:
		state.Error = ErrPingTimeout.Error()
	default:
		state.Error = err.Error()
	}
	return state
}

func (c *Checker) lastRun() *RunState {
	if c.runs == nil {
		return nil
	}
	summary, err := c.runs.Last()
	if summary == nil && err == nil {
		return nil
	}

	run := &RunState{}
	if summary != nil {
		run.RunID = summary.RunID
		run.Fetched = summary.Fetched
		run.Emitted = summary.Emitted
		run.Skipped = summary.Skipped
		run.Filtered = summary.Filtered
	}
	if err != nil {
		run.Error = err.Error()
	}
	return run
}
