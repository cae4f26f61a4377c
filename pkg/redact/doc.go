// Package redact finds sensitive key=value pairs in semi-structured log
// messages and replaces their values with a fixed token.
//
// A Matcher is compiled once from a FieldSet and a single-character
// separator:
//
//	m, err := redact.Build(redact.NewFieldSet("name", "email"), ";")
//	if err != nil {
//	    return err
//	}
//	m.Redact("name=Bob;email=bob@x.com;age=30;", redact.Token)
//	// name=***;email=***;age=30;
//
// # Known limitations
//
// A value that contains the separator is truncated at the first separator,
// so the rest of that value is left as-is. Field names and separators are not
// escaped before they are inserted into the pattern.
//
// A field name matches wherever it is followed by "=", with no boundary
// before it: with the field "name", "username=bob" becomes "username=***".
package redact
