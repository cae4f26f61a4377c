package redact

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewFieldSet(t *testing.T) {
	fs := NewFieldSet("name", "", "email", "name", "ssn")

	want := []string{"name", "email", "ssn"}
	got := fs.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if !fs.Contains("email") {
		t.Error("Contains(email) = false, want true")
	}
	if fs.Contains("Email") {
		t.Error("Contains(Email) = true, matching must be case-sensitive")
	}

	// Mutating the returned slice must not affect the set.
	got[0] = "changed"
	if fs.Names()[0] != "name" {
		t.Error("FieldSet was mutated through Names()")
	}
}

func TestBuild_InvalidSeparator(t *testing.T) {
	for _, sep := range []string{"", ";;", "ab"} {
		_, err := Build(DefaultFieldSet(), sep)
		if !errors.Is(err, ErrInvalidSeparator) {
			t.Errorf("Build(sep=%q) error = %v, want ErrInvalidSeparator", sep, err)
		}
	}
}

func TestBuild_InvalidPattern(t *testing.T) {
	_, err := Build(NewFieldSet("na(me"), ";")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("Build() error = %v, want ErrInvalidPattern", err)
	}
}

func TestMatcher_Redact(t *testing.T) {
	tests := []struct {
		name      string
		fields    []string
		separator string
		input     string
		want      string
	}{
		{
			name:      "sensitive fields replaced, order preserved",
			fields:    []string{"name", "email"},
			separator: ";",
			input:     "name=Bob;email=bob@x.com;age=30;",
			want:      "name=***;email=***;age=30;",
		},
		{
			name:      "no sensitive fields",
			fields:    []string{"password"},
			separator: ";",
			input:     "name=Bob;age=30;",
			want:      "name=Bob;age=30;",
		},
		{
			name:      "pairs joined with separator and space",
			fields:    []string{"email", "ssn"},
			separator: ";",
			input:     "name=Bob; email=bob@x.com; ssn=123-45-6789; ip=10.0.0.1;",
			want:      "name=Bob; email=***; ssn=***; ip=10.0.0.1;",
		},
		{
			name:      "custom separator",
			fields:    []string{"password", "date_of_birth"},
			separator: "|",
			input:     "name=egg|email=eggmin@eggsample.com|password=eggcellent|date_of_birth=12/12/1986|",
			want:      "name=egg|email=eggmin@eggsample.com|password=***|date_of_birth=***|",
		},
		{
			name:      "empty value",
			fields:    []string{"password"},
			separator: ";",
			input:     "password=;user=bob;",
			want:      "password=***;user=bob;",
		},
		{
			name:      "value without trailing separator",
			fields:    []string{"password"},
			separator: ";",
			input:     "user=bob;password=hunter2",
			want:      "user=bob;password=***",
		},
		{
			name:      "field name must be followed by equals",
			fields:    []string{"name"},
			separator: ";",
			input:     "names=Bob;name =Bob;",
			want:      "names=Bob;name =Bob;",
		},
		{
			name:      "field as tail of a longer key",
			fields:    []string{"name"},
			separator: ";",
			input:     "username=bob;name=Bob;",
			want:      "username=***;name=***;",
		},
		{
			name:      "field glued to punctuation",
			fields:    []string{"name", "email", "ssn", "password"},
			separator: ";",
			input:     "contact_email=bob@x.com;user.name=Bob;id=7,ssn=123-45-6789;[password=hunter2;",
			want:      "contact_email=***;user.name=***;id=7,ssn=***;[password=***;",
		},
		{
			name:      "case-sensitive field names",
			fields:    []string{"email"},
			separator: ";",
			input:     "EMAIL=a@b.c;email=a@b.c;",
			want:      "EMAIL=a@b.c;email=***;",
		},
		{
			name:      "separator inside value truncates the value",
			fields:    []string{"password"},
			separator: ";",
			input:     "password=se;cret;age=1;",
			want:      "password=***;cret;age=1;",
		},
		{
			name:      "field repeated",
			fields:    []string{"phone"},
			separator: ";",
			input:     "phone=111;phone=222;",
			want:      "phone=***;phone=***;",
		},
		{
			name:      "empty field set is identity",
			fields:    nil,
			separator: ";",
			input:     "name=Bob;email=bob@x.com;",
			want:      "name=Bob;email=bob@x.com;",
		},
		{
			name:      "empty message",
			fields:    []string{"name"},
			separator: ";",
			input:     "",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(NewFieldSet(tt.fields...), tt.separator)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := m.Redact(tt.input, Token); got != tt.want {
				t.Errorf("Redact() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatcher_RedactIdentity(t *testing.T) {
	m := MustBuild(DefaultFieldSet(), DefaultSeparator)

	messages := []string{
		"age=30;city=Paris;",
		"ip=60ed:c396:2ff:244:bbd0:9208:26f2:93ea; last_login=2019-11-14 06:14:24;",
		"plain text without pairs",
		"user_agent=Chrome/7.0.517.0;",
	}
	for _, msg := range messages {
		if got := m.Redact(msg, Token); got != msg {
			t.Errorf("Redact(%q) = %q, want unchanged", msg, got)
		}
	}
}

func TestMatcher_RedactRemovesValues(t *testing.T) {
	m := MustBuild(DefaultFieldSet(), DefaultSeparator)

	msg := "name=Alice;email=alice@example.com;phone=555-0100;ssn=987-65-4321;password=pa55;age=41;"
	got := m.Redact(msg, Token)

	for _, secret := range []string{"Alice", "alice@example.com", "555-0100", "987-65-4321", "pa55"} {
		if strings.Contains(got, secret) {
			t.Errorf("Redact() output %q still contains %q", got, secret)
		}
	}
	for _, field := range DefaultFields {
		if !strings.Contains(got, field+"=***;") {
			t.Errorf("Redact() output %q missing %q", got, field+"=***;")
		}
	}
	if !strings.Contains(got, "age=41;") {
		t.Errorf("Redact() output %q dropped non-sensitive field", got)
	}
}

func TestMatcher_RedactNoLeakAfterAnyPrefix(t *testing.T) {
	m := MustBuild(DefaultFieldSet(), DefaultSeparator)

	prefixes := []string{"", " ", "x", "_", ".", ",", "[", "contact_", "id=7,"}
	for _, prefix := range prefixes {
		for _, field := range DefaultFields {
			msg := prefix + field + "=s3cr3t-value;age=1;"
			got := m.Redact(msg, Token)
			if strings.Contains(got, "s3cr3t-value") {
				t.Errorf("Redact(%q) = %q, value leaked", msg, got)
			}
			if !strings.Contains(got, field+"=***;") {
				t.Errorf("Redact(%q) = %q, missing %q", msg, got, field+"=***;")
			}
		}
	}
}

func TestMatcher_RedactIdempotent(t *testing.T) {
	m := MustBuild(DefaultFieldSet(), DefaultSeparator)

	messages := []string{
		"name=Bob;email=bob@x.com;age=30;",
		"name=Bob; password=x; ",
		"ssn=;phone=1",
	}
	for _, msg := range messages {
		once := m.Redact(msg, Token)
		twice := m.Redact(once, Token)
		if once != twice {
			t.Errorf("Redact not idempotent for %q: %q != %q", msg, once, twice)
		}
	}
}

func TestMatcher_RedactTokenIsLiteral(t *testing.T) {
	m := MustBuild(NewFieldSet("password"), ";")

	got := m.Redact("password=x;", "$1${field}")
	if want := "password=$1${field};"; got != want {
		t.Errorf("Redact() = %q, want %q", got, want)
	}
}

func TestMatcher_Find(t *testing.T) {
	m := MustBuild(NewFieldSet("name", "email"), ";")

	msg := "name=Bob;age=30;email=bob@x.com;"
	matches := m.Find(msg)
	if len(matches) != 2 {
		t.Fatalf("Find() returned %d matches, want 2", len(matches))
	}

	if matches[0].Field != "name" || matches[0].Value != "Bob" {
		t.Errorf("matches[0] = %+v, want name=Bob", matches[0])
	}
	if msg[matches[0].Start:matches[0].End] != "name=Bob" {
		t.Errorf("matches[0] span = %q, want %q", msg[matches[0].Start:matches[0].End], "name=Bob")
	}

	if matches[1].Field != "email" || matches[1].Value != "bob@x.com" {
		t.Errorf("matches[1] = %+v, want email=bob@x.com", matches[1])
	}
	if msg[matches[1].Start:matches[1].End] != "email=bob@x.com" {
		t.Errorf("matches[1] span = %q", msg[matches[1].Start:matches[1].End])
	}

	tail := m.Find("contact_email=a@b.c;")
	if len(tail) != 1 || tail[0].Field != "email" || tail[0].Value != "a@b.c" || tail[0].Start != 8 {
		t.Errorf("Find() on suffixed key = %+v, want email=a@b.c at offset 8", tail)
	}

	if got := m.Find("age=30;"); got != nil {
		t.Errorf("Find() on clean message = %v, want nil", got)
	}
}

func TestFilter(t *testing.T) {
	got, err := Filter([]string{"email", "ssn", "password"}, "xxx",
		"name=egg;email=eggmin@eggsample.com;password=eggcellent;date_of_birth=12/12/1986;", ";")
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	want := "name=egg;email=xxx;password=xxx;date_of_birth=12/12/1986;"
	if got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}

	if _, err := Filter([]string{"email"}, Token, "email=a;", ""); !errors.Is(err, ErrInvalidSeparator) {
		t.Errorf("Filter() with empty separator error = %v, want ErrInvalidSeparator", err)
	}
}

func TestMatcher_ConcurrentUse(t *testing.T) {
	m := MustBuild(DefaultFieldSet(), DefaultSeparator)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := m.Redact("name=Bob;age=1;", Token); got != "name=***;age=1;" {
					t.Errorf("Redact() = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
