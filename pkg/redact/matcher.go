package redact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Token is the placeholder substituted for every sensitive value.
const Token = "***"

// DefaultSeparator delimits consecutive key=value pairs.
const DefaultSeparator = ";"

var (
	// ErrInvalidSeparator is returned when the separator is not exactly one character.
	ErrInvalidSeparator = errors.New("separator must be exactly one character")

	// ErrInvalidPattern is returned when the field set and separator do not
	// compile into a valid regular expression.
	ErrInvalidPattern = errors.New("invalid redaction pattern")
)

// Matcher finds and replaces sensitive key=value pairs in a message.
// It is immutable and safe for concurrent use.
type Matcher struct {
	fields    FieldSet
	separator string
	regex     *regexp.Regexp // nil when fields is empty
}

// Match describes one sensitive pair found in a message.
type Match struct {
	// Field is the matched field name.
	Field string

	// Value is the original value, up to the next separator.
	Value string

	// Start is the byte offset of the field name.
	Start int

	// End is the byte offset just past the value.
	End int
}

// Build compiles a Matcher for fields delimited by separator.
//
// Field names are inserted into the pattern as literal alternatives without
// escaping, and the separator is used as-is inside character classes. Names
// or separators carrying regex metacharacters change matching semantics; the
// caller owns that risk.
func Build(fields FieldSet, separator string) (*Matcher, error) {
	if utf8.RuneCountInString(separator) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeparator, separator)
	}

	m := &Matcher{
		fields:    fields,
		separator: separator,
	}
	if fields.Len() == 0 {
		return m, nil
	}

	re, err := regexp.Compile(pattern(fields.names, separator))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	m.regex = re

	return m, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(fields FieldSet, separator string) *Matcher {
	m, err := Build(fields, separator)
	if err != nil {
		panic(err)
	}
	return m
}

// pattern renders the matching expression. A field name matches wherever
// it is followed by "=", including as the tail of a longer key, so
// "contact_email=" is redacted by the field "email".
func pattern(names []string, separator string) string {
	return fmt.Sprintf(`(?P<field>%s)=[^%s]*`, strings.Join(names, "|"), separator)
}

// Fields returns the field set the matcher was built from.
func (m *Matcher) Fields() FieldSet {
	return m.fields
}

// Separator returns the pair separator.
func (m *Matcher) Separator() string {
	return m.separator
}

// Redact replaces the value of every sensitive pair in message with token.
// Field names, separators and unmatched text are left byte-identical.
func (m *Matcher) Redact(message, token string) string {
	if m.regex == nil || message == "" {
		return message
	}
	return m.regex.ReplaceAllString(message, "${field}="+strings.ReplaceAll(token, "$", "$$"))
}

// Find returns every sensitive pair in message, in order of appearance.
func (m *Matcher) Find(message string) []Match {
	if m.regex == nil || message == "" {
		return nil
	}

	locs := m.regex.FindAllStringSubmatchIndex(message, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		// loc: [match, field]
		fieldEnd := loc[3]
		matches = append(matches, Match{
			Field: message[loc[2]:fieldEnd],
			Value: message[fieldEnd+1 : loc[1]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return matches
}

// Filter redacts message in one shot. It compiles a new pattern on every
// call; long-lived callers should Build a Matcher once instead.
func Filter(fields []string, token, message, separator string) (string, error) {
	m, err := Build(NewFieldSet(fields...), separator)
	if err != nil {
		return "", err
	}
	return m.Redact(message, token), nil
}
