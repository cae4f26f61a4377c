package source

import (
	"context"
	"errors"
	"sync"

	"piilog-hq/piilog/pkg/formatter"
)

// ErrClosed is returned by a source used after Close.
var ErrClosed = errors.New("source closed")

// MemorySource serves a fixed list of records.
type MemorySource struct {
	mu      sync.Mutex
	records []formatter.Record
	closed  bool
}

// NewMemorySource returns a source that yields a copy of records on every
// fetch.
func NewMemorySource(records ...formatter.Record) *MemorySource {
	return &MemorySource{records: append([]formatter.Record(nil), records...)}
}

// FromRows turns rows into records under the given logger name and level.
func FromRows(name string, level formatter.Level, rows []Row) *MemorySource {
	records := make([]formatter.Record, len(rows))
	for i, row := range rows {
		records[i] = formatter.Record{Name: name, Level: level, Message: row.Message()}
	}
	return &MemorySource{records: records}
}

// FetchRecords returns the configured records.
func (m *MemorySource) FetchRecords(ctx context.Context) ([]formatter.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	return append([]formatter.Record(nil), m.records...), nil
}

// Close marks the source closed.
func (m *MemorySource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
