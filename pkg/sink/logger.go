package sink

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"piilog-hq/piilog/pkg/formatter"
)

// Logger pairs a formatter with a sink. It replaces a process-wide logger:
// callers construct one and pass it where records are produced.
type Logger struct {
	name      string
	minLevel  formatter.Level
	formatter atomic.Pointer[formatter.Formatter]
	sink      Sink
}

// NewLogger creates a logger that emits records at or above minLevel.
func NewLogger(name string, minLevel formatter.Level, f *formatter.Formatter, s Sink) (*Logger, error) {
	if name == "" {
		return nil, errors.New("logger name is required")
	}
	if !minLevel.Valid() {
		return nil, fmt.Errorf("invalid minimum level %d", minLevel)
	}
	if f == nil {
		return nil, errors.New("formatter is required")
	}
	if s == nil {
		return nil, errors.New("sink is required")
	}

	l := &Logger{name: name, minLevel: minLevel, sink: s}
	l.formatter.Store(f)
	return l, nil
}

// Name returns the logger name used for records created by Log.
func (l *Logger) Name() string {
	return l.name
}

// Enabled reports whether records at level are emitted.
func (l *Logger) Enabled(level formatter.Level) bool {
	return level >= l.minLevel
}

// Formatter returns the formatter currently in use.
func (l *Logger) Formatter() *formatter.Formatter {
	return l.formatter.Load()
}

// SetFormatter swaps the formatter. Records already being formatted finish
// with the old one.
func (l *Logger) SetFormatter(f *formatter.Formatter) {
	if f != nil {
		l.formatter.Store(f)
	}
}

// Log formats a message under the logger's own name.
func (l *Logger) Log(ctx context.Context, level formatter.Level, message string) (bool, error) {
	return l.Handle(ctx, &formatter.Record{Name: l.name, Level: level, Message: message})
}

// Handle formats rec with the current formatter and emits it. It reports
// false without error when the record is below the minimum level.
func (l *Logger) Handle(ctx context.Context, rec *formatter.Record) (bool, error) {
	return l.HandleWith(ctx, l.formatter.Load(), rec)
}

// HandleWith is Handle with the formatter pinned by the caller, so work done
// after emitting (such as counting redactions) sees the same formatter even
// if SetFormatter runs in between.
func (l *Logger) HandleWith(ctx context.Context, f *formatter.Formatter, rec *formatter.Record) (bool, error) {
	if f == nil {
		return false, errors.New("formatter is required")
	}
	if rec != nil && rec.Level.Valid() && !l.Enabled(rec.Level) {
		return false, nil
	}

	line, err := f.Format(rec)
	if err != nil {
		return false, err
	}

	if err := l.sink.Emit(ctx, line); err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the sink.
func (l *Logger) Close() error {
	return l.sink.Close()
}
