package source

import (
	"context"
	"fmt"
	"strings"

	"piilog-hq/piilog/pkg/formatter"
)

// RecordSource produces the records a pipeline run formats.
type RecordSource interface {
	// FetchRecords returns every record currently available.
	FetchRecords(ctx context.Context) ([]formatter.Record, error)

	// Close releases the source's resources.
	Close() error
}

// NullValue is how a NULL column is rendered in a row message.
const NullValue = "None"

// Column is one column name and its rendered value.
type Column struct {
	Name  string
	Value string
}

// Row is one database row with its columns in query order.
type Row []Column

// Message renders the row as "col1=v1; col2=v2; ...;".
func (r Row) Message() string {
	pairs := make([]string, len(r))
	for i, c := range r {
		pairs[i] = c.Name + "=" + c.Value
	}
	return strings.Join(pairs, "; ") + ";"
}

// Get returns the value of the named column.
func (r Row) Get(name string) (string, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Error describes a failed source operation.
type Error struct {
	// Driver is the database/sql driver name.
	Driver string

	// Op is the operation that failed ("open", "ping", "query", "scan").
	Op string

	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("source %s: %s failed: %v", e.Driver, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(driver, op string, err error) *Error {
	return &Error{Driver: driver, Op: op, Err: err}
}
