package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"piilog-hq/piilog/pkg/pipeline"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	// FormatText prints one human-readable block.
	FormatText OutputFormat = "text"
	// FormatJSON prints indented JSON for scripts.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat parses the --output flag.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: must be 'text' or 'json'", s)
	}
}

// Render writes v to w. Text output goes through fmt, so a String method on
// v decides the layout.
func Render(w io.Writer, format OutputFormat, v any) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

// RunReport is the printable outcome of one pipeline run, including runs
// that stopped early.
type RunReport struct {
	RunID    string  `json:"run_id"`
	Fetched  int     `json:"fetched"`
	Emitted  int     `json:"emitted"`
	Skipped  int     `json:"skipped"`
	Filtered int     `json:"filtered"`
	Seconds  float64 `json:"duration_seconds"`
	Error    string  `json:"error,omitempty"`
}

// NewRunReport builds a report from the summary and error returned by
// pipeline.Runner.Run. summary may be nil.
func NewRunReport(summary *pipeline.Summary, err error) RunReport {
	var r RunReport
	if summary != nil {
		r = RunReport{
			RunID:    summary.RunID,
			Fetched:  summary.Fetched,
			Emitted:  summary.Emitted,
			Skipped:  summary.Skipped,
			Filtered: summary.Filtered,
			Seconds:  summary.Duration.Seconds(),
		}
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Failed reports whether the run ended with an error.
func (r RunReport) Failed() bool {
	return r.Error != ""
}

func (r RunReport) String() string {
	counts := fmt.Sprintf("%d fetched, %d emitted, %d skipped, %d filtered in %.3fs",
		r.Fetched, r.Emitted, r.Skipped, r.Filtered, r.Seconds)
	if r.Failed() {
		return fmt.Sprintf("✗ Run %s failed (%s): %s", r.RunID, counts, r.Error)
	}
	return fmt.Sprintf("✓ Run %s: %s", r.RunID, counts)
}
