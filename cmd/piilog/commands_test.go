package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"piilog-hq/piilog/pkg/cli"
)

func TestRedactCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "piilog.yaml", "redaction:\n  fields: [name, email]\n")

	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{
			name:  "configured fields",
			args:  []string{"redact", "--config", cfg},
			input: "name=Bob;email=bob@x.com;age=30;\nage=31;\n",
			want:  "name=***;email=***;age=30;\nage=31;\n",
		},
		{
			name:  "fields flag",
			args:  []string{"redact", "--config", cfg, "--fields", "age"},
			input: "name=Bob;age=30;\n",
			want:  "name=Bob;age=***;\n",
		},
		{
			name:  "custom separator",
			args:  []string{"redact", "--config", cfg, "--separator", ","},
			input: "name=Bob,email=bob@x.com,age=30,\n",
			want:  "name=***,email=***,age=30,\n",
		},
		{
			name:  "empty field set is identity",
			args:  []string{"redact", "--config", cfg, "--fields", ""},
			input: "name=Bob;\n",
			want:  "name=Bob;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.input, tt.args...)
			if err != nil {
				t.Fatalf("redact error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestFormatCommand(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "piilog.yaml", "redaction:\n  fields: [name, password]\n")

	out, _, err := execute(t, "", "format", "--config", cfg, "name=Alice;password=secret;")
	if err != nil {
		t.Fatalf("format error = %v", err)
	}

	pattern := regexp.MustCompile(`^\[PREFIX\] user_data INFO \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3}: name=\*\*\*;password=\*\*\*;\n$`)
	if !pattern.MatchString(out) {
		t.Errorf("output = %q", out)
	}

	out, _, err = execute(t, "", "format", "--config", cfg, "--name", "audit", "--level", "warning", "note=a;b;")
	if err != nil {
		t.Fatalf("format error = %v", err)
	}
	if !strings.HasPrefix(out, "[PREFIX] audit WARNING ") || !strings.HasSuffix(out, ": note=a; b;\n") {
		t.Errorf("output = %q", out)
	}

	if _, _, err := execute(t, "", "format", "--config", cfg, "--level", "loud", "a=b;"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.yaml", "redaction:\n  prefix: HOLBERTON\n")
	invalid := writeFile(t, dir, "invalid.yaml", "redaction:\n  separator: ';;'\npipeline:\n  on_invalid: retry\n")

	out, _, err := execute(t, "", "validate", "--config", valid)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "✓ Configuration valid") {
		t.Errorf("output = %q", out)
	}

	out, _, err = execute(t, "", "validate", "--config", invalid, "--output", "json")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("ExitCode() = %d, want %d", cli.ExitCode(err), cli.ExitConfig)
	}

	var report struct {
		Valid  bool
		Errors []struct{ Field string }
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Valid || len(report.Errors) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Errors[0].Field != "redaction.separator" || report.Errors[1].Field != "pipeline.on_invalid" {
		t.Errorf("unexpected fields: %+v", report.Errors)
	}
}

func TestValidateCommand_Connect(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "piilog.yaml", sqliteConfig(createUsersDB(t, dir)))

	out, _, err := execute(t, "", "validate", "--config", cfg, "--connect")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "✓ Database reachable") {
		t.Errorf("output = %q", out)
	}

	missing := writeFile(t, dir, "missing.yaml", sqliteConfig(filepath.Join(dir, "nope", "users.db")))
	if _, _, err := execute(t, "", "validate", "--config", missing, "--connect"); err == nil {
		t.Error("expected connection error")
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "", "validate", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
	var cerr *cli.ConfigError
	if !errors.As(err, &cerr) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want a ConfigError wrapping ErrNotExist", err)
	}
}

func TestRunCommand_Once(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "piilog.yaml", sqliteConfig(createUsersDB(t, dir)))

	out, stderr, err := execute(t, "", "run", "--config", cfg, "--output", "json")
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, stderr)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), out)
	}
	line := regexp.MustCompile(`^\[PREFIX\] user_data INFO \S+ \S+: name=\*\*\*; email=\*\*\*; ip=10\.0\.0\.\d;$`)
	for _, l := range lines {
		if !line.MatchString(l) {
			t.Errorf("unexpected line %q", l)
		}
		if strings.Contains(l, "bob@x.com") || strings.Contains(l, "Eve") {
			t.Errorf("line leaks personal data: %q", l)
		}
	}

	var summary cli.RunReport
	if err := json.Unmarshal([]byte(stderr), &summary); err != nil {
		t.Fatalf("summary is not JSON: %v\n%s", err, stderr)
	}
	if summary.Fetched != 2 || summary.Emitted != 2 || summary.RunID == "" {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRunCommand_FailedRunPrintsReport(t *testing.T) {
	dir := t.TempDir()
	body := strings.Replace(sqliteConfig(createUsersDB(t, dir)), "table: users", "table: accounts", 1)
	cfg := writeFile(t, dir, "piilog.yaml", body)

	out, stderr, err := execute(t, "", "run", "--config", cfg, "--output", "json")
	if err == nil {
		t.Fatal("expected the run to fail on a missing table")
	}
	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) || cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("error = %v (exit %d), want a run CommandError", err, cli.ExitCode(err))
	}
	if out != "" {
		t.Errorf("stdout should be empty, got %q", out)
	}

	// The run's own error log precedes the indented report on stderr.
	start := strings.Index(stderr, "{\n  \"run_id\"")
	if start < 0 {
		t.Fatalf("failed run printed no report:\n%s", stderr)
	}
	var report cli.RunReport
	if err := json.Unmarshal([]byte(stderr[start:]), &report); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, stderr)
	}
	if report.RunID == "" || !report.Failed() || !strings.Contains(report.Error, "failed to fetch records") {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestRunCommand_OutFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "piilog.yaml", sqliteConfig(createUsersDB(t, dir)))
	outPath := filepath.Join(dir, "users.log")

	out, _, err := execute(t, "", "run", "--config", cfg, "--out", outPath)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty, got %q", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if strings.Count(string(data), "\n") != 2 || !strings.Contains(string(data), "ip=10.0.0.2;") {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestRunCommand_WatchRequiresSchedule(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "piilog.yaml", sqliteConfig(createUsersDB(t, dir)))

	_, _, err := execute(t, "", "run", "--config", cfg, "--watch")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("run --watch error = %v, want a config error", err)
	}
}

func TestRunCommand_InvalidSchedule(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "piilog.yaml", sqliteConfig(createUsersDB(t, dir)))

	_, _, err := execute(t, "", "run", "--config", cfg, "--schedule", "not cron")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("run --schedule error = %v, want a config error", err)
	}
}
