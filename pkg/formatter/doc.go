// Package formatter turns records into redacted, timestamped log lines.
//
// A Formatter owns a redact.Matcher compiled at construction time and
// renders each record as
//
//	[PREFIX] user_data INFO 2019-11-19 18:24:25,105: name=***;email=***;age=30;
//
// Before matching, semicolons that sit inside a value (rather than between
// two pairs) get a trailing space so they can be told apart from pair
// separators in the output. Escaping always looks at ";" even when the
// matcher uses another separator.
//
// Records missing a name, a valid level, or a message are rejected with an
// error wrapping ErrInvalidRecord.
package formatter
