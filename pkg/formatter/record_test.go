package formatter

import (
	"regexp"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"Warning", LevelWarning, false},
		{"warn", LevelWarning, false},
		{"ERROR", LevelError, false},
		{"critical", LevelCritical, false},
		{"fatal", LevelCritical, false},
		{" info ", LevelInfo, false},
		{"trace", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	want := map[Level]string{
		LevelDebug:    "DEBUG",
		LevelInfo:     "INFO",
		LevelWarning:  "WARNING",
		LevelError:    "ERROR",
		LevelCritical: "CRITICAL",
	}
	for l, name := range want {
		if l.String() != name {
			t.Errorf("Level(%d).String() = %q, want %q", int(l), l.String(), name)
		}
	}

	var zero Level
	if zero.Valid() {
		t.Error("zero Level must not be valid")
	}
}

func TestTimeStamper(t *testing.T) {
	shape := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3}$`)

	ts := NewTimeStamper(nil)
	for i := 0; i < 20; i++ {
		if got := ts.Now(); !shape.MatchString(got) {
			t.Fatalf("Now() = %q, does not match %s", got, shape)
		}
	}

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero padded millis", time.Date(2020, 1, 2, 3, 4, 5, 7_000_000, time.Local), "2020-01-02 03:04:05,007"},
		{"truncated not rounded", time.Date(2020, 1, 2, 3, 4, 5, 999_999_999, time.Local), "2020-01-02 03:04:05,999"},
		{"whole second", time.Date(2020, 12, 31, 23, 59, 59, 0, time.Local), "2020-12-31 23:59:59,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ts.Stamp(tt.in); got != tt.want {
				t.Errorf("Stamp() = %q, want %q", got, tt.want)
			}
		})
	}

	fixed := NewTimeStamper(func() time.Time { return time.Date(2021, 6, 7, 8, 9, 10, 11_500_000, time.Local) })
	if got := fixed.Now(); got != "2021-06-07 08:09:10,011" {
		t.Errorf("Now() with fixed clock = %q", got)
	}
}
