package logging

import (
	"log/slog"
	"strings"

	"piilog-hq/piilog/pkg/redact"
)

// Redactor hides PII in log attributes. Attributes whose key is a configured
// field, or looks like a credential, lose their value entirely; string values
// have embedded key=value pairs for configured fields rewritten.
type Redactor struct {
	fields  redact.FieldSet
	matcher *redact.Matcher
}

// sensitiveKeys are key fragments redacted regardless of configuration.
var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "dsn",
}

// NewRedactor creates a Redactor for the given fields. A nil field list
// means the default PII fields; an empty separator means ";".
func NewRedactor(fields []string, separator string) (*Redactor, error) {
	set := redact.DefaultFieldSet()
	if fields != nil {
		set = redact.NewFieldSet(fields...)
	}
	if separator == "" {
		separator = redact.DefaultSeparator
	}

	matcher, err := redact.Build(set, separator)
	if err != nil {
		return nil, err
	}

	return &Redactor{fields: set, matcher: matcher}, nil
}

// RedactString rewrites field=value pairs inside value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	return r.matcher.Redact(value, redact.Token)
}

// RedactAttr returns a with sensitive content replaced. Groups are walked
// recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		redacted := make([]any, len(group))
		for i, ga := range group {
			redacted[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, redacted...)
	}

	if r.isSensitiveKey(a.Key) {
		return slog.String(a.Key, redact.Token)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}

// isSensitiveKey reports whether key names a configured field exactly or
// contains a credential fragment.
func (r *Redactor) isSensitiveKey(key string) bool {
	if r.fields.Contains(key) {
		return true
	}

	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}
