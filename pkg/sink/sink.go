package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("sink closed")

// Sink receives formatted lines. Implementations add their own line
// terminator.
type Sink interface {
	Emit(ctx context.Context, line string) error
	Close() error
}

// WriterSink writes one line per Emit to an io.Writer. Concurrent emits are
// serialized so lines never interleave.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	closed bool
}

// NewWriterSink returns a sink writing to w. If w is also an io.Closer it is
// closed with the sink, except for os.Stdout and os.Stderr.
func NewWriterSink(w io.Writer) *WriterSink {
	s := &WriterSink{w: w}
	if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
		s.closer = c
	}
	return s
}

// OpenFile appends to the file at path, creating it with 0600 permissions.
func OpenFile(path string) (*WriterSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file %q: %w", path, err)
	}
	return NewWriterSink(f), nil
}

// Emit writes line followed by a newline.
func (s *WriterSink) Emit(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	return nil
}

// Close closes the underlying writer when the sink owns it.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// MemorySink keeps emitted lines in memory.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

// Emit appends line.
func (m *MemorySink) Emit(ctx context.Context, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
	return nil
}

// Close does nothing.
func (m *MemorySink) Close() error {
	return nil
}

// Lines returns a copy of the emitted lines.
func (m *MemorySink) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}
