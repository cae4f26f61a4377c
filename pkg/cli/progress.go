package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"piilog-hq/piilog/pkg/pipeline"
)

// barWidth is the number of cells in the progress bar.
const barWidth = 30

// Bar cells, one per record outcome.
const (
	cellEmitted  = "█"
	cellSkipped  = "▒"
	cellFiltered = "░"
	cellPending  = "·"
)

// RunProgress draws one line on a terminal that breaks the records of a run
// down by outcome. It implements pipeline.Progress.
type RunProgress struct {
	mu     sync.Mutex
	w      io.Writer
	runID  string
	total  int
	counts pipeline.Summary
}

// NewRunProgress creates a progress line writing to w, or to stderr when w
// is nil so the bar never mixes with formatted lines on stdout.
func NewRunProgress(w io.Writer) *RunProgress {
	if w == nil {
		w = os.Stderr
	}
	return &RunProgress{w: w}
}

// Begin resets the line for a new run of total records.
func (p *RunProgress) Begin(runID string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runID = runID
	p.total = total
	p.counts = pipeline.Summary{}
	p.draw()
}

// Step redraws the line with the running counts.
func (p *RunProgress) Step(counts pipeline.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.counts = counts
	p.draw()
}

// Done ends the line. A failed run gets a second line naming how far it got.
func (p *RunProgress) Done(summary *pipeline.Summary, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if summary != nil {
		p.counts = *summary
		if summary.RunID != "" {
			p.runID = summary.RunID
		}
	}
	if p.total > 0 {
		p.draw()
		fmt.Fprintln(p.w)
	}
	if err != nil {
		fmt.Fprintf(p.w, "✗ Run %s stopped after %d of %d records: %v\n",
			shortID(p.runID), handled(p.counts), p.total, err)
	}
}

func (p *RunProgress) draw() {
	if p.total == 0 {
		return
	}
	fmt.Fprintf(p.w, "\r%s [%s] %d/%d emitted=%d skipped=%d filtered=%d",
		shortID(p.runID), p.bar(), handled(p.counts), p.total,
		p.counts.Emitted, p.counts.Skipped, p.counts.Filtered)
}

// bar splits barWidth cells between outcomes in proportion to their counts.
// Cumulative rounding keeps the segments summing to the handled share.
func (p *RunProgress) bar() string {
	cells := func(n int) int {
		if n > p.total {
			n = p.total
		}
		return n * barWidth / p.total
	}

	emitted := cells(p.counts.Emitted)
	skipped := cells(p.counts.Emitted+p.counts.Skipped) - emitted
	filtered := cells(handled(p.counts)) - emitted - skipped
	pending := barWidth - emitted - skipped - filtered

	return strings.Repeat(cellEmitted, emitted) +
		strings.Repeat(cellSkipped, skipped) +
		strings.Repeat(cellFiltered, filtered) +
		strings.Repeat(cellPending, pending)
}

func handled(s pipeline.Summary) int {
	return s.Emitted + s.Skipped + s.Filtered
}

// shortID trims a UUID to its first group for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
