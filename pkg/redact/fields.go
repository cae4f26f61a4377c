package redact

// DefaultFields are the PII fields redacted when no field set is configured.
var DefaultFields = []string{"name", "email", "phone", "ssn", "password"}

// FieldSet is an ordered, immutable set of sensitive field names.
//
// Names are matched literally and case-sensitively. Duplicates collapse to
// the first occurrence and empty names are dropped.
type FieldSet struct {
	names []string
	index map[string]struct{}
}

// NewFieldSet creates a FieldSet from the given names, preserving order.
func NewFieldSet(names ...string) FieldSet {
	fs := FieldSet{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, dup := fs.index[n]; dup {
			continue
		}
		fs.index[n] = struct{}{}
		fs.names = append(fs.names, n)
	}
	return fs
}

// DefaultFieldSet returns a FieldSet holding DefaultFields.
func DefaultFieldSet() FieldSet {
	return NewFieldSet(DefaultFields...)
}

// Names returns a copy of the field names in insertion order.
func (fs FieldSet) Names() []string {
	out := make([]string, len(fs.names))
	copy(out, fs.names)
	return out
}

// Contains reports whether name is a sensitive field.
func (fs FieldSet) Contains(name string) bool {
	_, ok := fs.index[name]
	return ok
}

// Len returns the number of fields in the set.
func (fs FieldSet) Len() int {
	return len(fs.names)
}
