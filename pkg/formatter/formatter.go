package formatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"piilog-hq/piilog/pkg/redact"
)

// DefaultPrefix is the tag rendered in brackets at the start of every line.
const DefaultPrefix = "PREFIX"

// Formatter renders records into redacted log lines of the form
//
//	[PREFIX] {name} {LEVEL} {timestamp}: {redacted message}
//
// The matcher is compiled once in New. A Formatter is immutable and safe for
// concurrent use.
type Formatter struct {
	matcher *redact.Matcher
	prefix  string
	stamper *TimeStamper
}

type options struct {
	separator string
	prefix    string
	clock     func() time.Time
}

// Option configures a Formatter.
type Option func(*options)

// WithSeparator sets the key=value pair separator used for matching.
func WithSeparator(sep string) Option {
	return func(o *options) {
		o.separator = sep
	}
}

// WithPrefix sets the bracketed line prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithClock sets the clock read by the timestamp.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// New creates a Formatter redacting the given fields.
func New(fields redact.FieldSet, opts ...Option) (*Formatter, error) {
	o := options{
		separator: redact.DefaultSeparator,
		prefix:    DefaultPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}

	matcher, err := redact.Build(fields, o.separator)
	if err != nil {
		return nil, fmt.Errorf("failed to build field matcher: %w", err)
	}

	return &Formatter{
		matcher: matcher,
		prefix:  o.prefix,
		stamper: NewTimeStamper(o.clock),
	}, nil
}

// Matcher returns the compiled field matcher.
func (f *Formatter) Matcher() *redact.Matcher {
	return f.matcher
}

// Prefix returns the line prefix.
func (f *Formatter) Prefix() string {
	return f.prefix
}

// Format validates rec and renders it. The timestamp reflects the moment
// Format is called. Invalid records return an error wrapping
// ErrInvalidRecord and no line.
func (f *Formatter) Format(rec *Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	msg := f.RedactMessage(rec.Message)
	return fmt.Sprintf("[%s] %s %s %s: %s", f.prefix, rec.Name, rec.Level, f.stamper.Now(), msg), nil
}

// RedactMessage escapes literal semicolons and then redacts sensitive values.
func (f *Formatter) RedactMessage(message string) string {
	return f.matcher.Redact(EscapeSemicolons(message), redact.Token)
}

// pairStart matches what may follow a separating semicolon: optional
// whitespace and then either a key= token or the end of the message.
var pairStart = regexp.MustCompile(`^\s*(?:[A-Za-z_][A-Za-z0-9_.\-]*=|$)`)

// EscapeSemicolons appends a space to every semicolon that does not separate
// two key=value pairs, so literal semicolons inside values stay visible in
// the rendered line. Semicolons already followed by a space are left alone.
func EscapeSemicolons(message string) string {
	if !strings.Contains(message, ";") {
		return message
	}

	var b strings.Builder
	b.Grow(len(message) + 8)
	for i := 0; i < len(message); i++ {
		b.WriteByte(message[i])
		if message[i] != ';' {
			continue
		}
		rest := message[i+1:]
		if strings.HasPrefix(rest, " ") || pairStart.MatchString(rest) {
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}
