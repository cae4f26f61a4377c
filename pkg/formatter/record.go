package formatter

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of a record. The zero value is not a valid level.
type Level int

const (
	LevelDebug Level = iota + 1
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelNames = map[Level]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

// String returns the upper-case level name used in formatted lines.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// ParseLevel parses a level name. It accepts any case and the aliases
// "warn" and "fatal".
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARNING", "WARN":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL", "FATAL":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("unknown level: %q", s)
	}
}

// Record is a single loggable event.
type Record struct {
	// Name is the source logger name, e.g. "user_data".
	Name string

	// Level is the record severity.
	Level Level

	// Message is the raw key=value message body.
	Message string
}

// ErrInvalidRecord is returned when a record is missing a required attribute.
var ErrInvalidRecord = errors.New("invalid record")

// RecordError describes which attribute of a record is invalid.
type RecordError struct {
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Reason)
}

// Is reports ErrInvalidRecord as a match so callers can use errors.Is.
func (e *RecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}

// Validate checks that the record carries a name and a valid level. An empty
// message is a present, empty body and is accepted.
func (r *Record) Validate() error {
	switch {
	case r == nil:
		return &RecordError{Field: "record", Reason: "is nil"}
	case r.Name == "":
		return &RecordError{Field: "name", Reason: "is required"}
	case !r.Level.Valid():
		return &RecordError{Field: "level", Reason: fmt.Sprintf("unknown level %d", int(r.Level))}
	}
	return nil
}
