package source

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"piilog-hq/piilog/pkg/config"
	"piilog-hq/piilog/pkg/formatter"
)

var sqliteDrivers = []string{"sqlite", "sqlite3"}

// createUsersDB creates a users table like the personal-data database and
// returns its path.
func createUsersDB(t *testing.T, driver string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.db")
	db, err := sql.Open(driver, path)
	if err != nil {
		t.Fatalf("Failed to open %s database: %v", driver, err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE users (
			name TEXT, email TEXT, phone TEXT, ssn TEXT, password TEXT,
			ip TEXT, last_login DATETIME, user_agent TEXT, age INTEGER
		)`,
		`INSERT INTO users VALUES ('Marlene Wood', 'hwestiii@att.net', '(473) 401-4253', '261-72-6780',
			'K5?BMNv', '60ed:c396:2ff:244:bbd0:9208:26f2:93ea', '2019-11-14 06:14:24',
			'Mozilla/5.0 (Windows NT 6.1)', 42)`,
		`INSERT INTO users VALUES ('Bob', 'bob@x.com', NULL, NULL, 'pw', '10.0.0.1',
			'2020-01-02 03:04:05', 'curl/7.0', NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to seed database: %v", err)
		}
	}

	return path
}

func sqliteConfig(driver, path string) (*config.DatabaseConfig, *config.SourceConfig) {
	return &config.DatabaseConfig{
			Driver:         driver,
			Path:           path,
			ConnectTimeout: time.Second,
			MaxOpenConns:   2,
		}, &config.SourceConfig{
			Table:      "users",
			Columns:    []string{"name", "email", "phone", "ssn", "password", "ip", "last_login", "user_agent"},
			LoggerName: "user_data",
			Level:      "info",
		}
}

func TestSQLSource_FetchRecords(t *testing.T) {
	for _, driver := range sqliteDrivers {
		t.Run(driver, func(t *testing.T) {
			path := createUsersDB(t, driver)
			dbCfg, srcCfg := sqliteConfig(driver, path)

			src, err := Open(context.Background(), dbCfg, srcCfg, nil)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer src.Close()

			records, err := src.FetchRecords(context.Background())
			if err != nil {
				t.Fatalf("FetchRecords() error = %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}

			want := "name=Marlene Wood; email=hwestiii@att.net; phone=(473) 401-4253; ssn=261-72-6780; " +
				"password=K5?BMNv; ip=60ed:c396:2ff:244:bbd0:9208:26f2:93ea; last_login=2019-11-14 06:14:24; " +
				"user_agent=Mozilla/5.0 (Windows NT 6.1);"
			if records[0].Message != want {
				t.Errorf("Message =\n  %q\nwant\n  %q", records[0].Message, want)
			}
			if records[0].Name != "user_data" || records[0].Level != formatter.LevelInfo {
				t.Errorf("unexpected record metadata: %+v", records[0])
			}
			if !strings.Contains(records[1].Message, "phone=None; ssn=None;") {
				t.Errorf("NULL columns not rendered as None: %q", records[1].Message)
			}
		})
	}
}

func TestSQLSource_FetchRows_Types(t *testing.T) {
	for _, driver := range sqliteDrivers {
		t.Run(driver, func(t *testing.T) {
			path := createUsersDB(t, driver)
			dbCfg, srcCfg := sqliteConfig(driver, path)
			srcCfg.Columns = []string{"name", "age"}

			src, err := Open(context.Background(), dbCfg, srcCfg, nil)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer src.Close()

			rows, err := src.FetchRows(context.Background())
			if err != nil {
				t.Fatalf("FetchRows() error = %v", err)
			}

			if age, _ := rows[0].Get("age"); age != "42" {
				t.Errorf("age = %q, want 42", age)
			}
			if age, _ := rows[1].Get("age"); age != NullValue {
				t.Errorf("age = %q, want %s", age, NullValue)
			}
		})
	}
}

func TestSQLSource_ReadOnly(t *testing.T) {
	for _, driver := range sqliteDrivers {
		t.Run(driver, func(t *testing.T) {
			path := createUsersDB(t, driver)
			dbCfg, srcCfg := sqliteConfig(driver, path)

			src, err := Open(context.Background(), dbCfg, srcCfg, nil)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer src.Close()

			if _, err := src.db.Exec("DELETE FROM users"); err == nil {
				t.Error("expected writes to fail on a query-only connection")
			}
		})
	}
}

func TestSQLSource_QueryError(t *testing.T) {
	path := createUsersDB(t, "sqlite")
	dbCfg, srcCfg := sqliteConfig("sqlite", path)
	srcCfg.Table = "customers"

	src, err := Open(context.Background(), dbCfg, srcCfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	_, err = src.FetchRecords(context.Background())
	var srcErr *Error
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if srcErr.Op != "query" || srcErr.Driver != "sqlite" {
		t.Errorf("unexpected error fields: %+v", srcErr)
	}
}

func TestSQLSource_Cancelled(t *testing.T) {
	path := createUsersDB(t, "sqlite")
	dbCfg, srcCfg := sqliteConfig("sqlite", path)

	src, err := Open(context.Background(), dbCfg, srcCfg, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.FetchRecords(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNewSQLSource_Validation(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	base := Options{Table: "users", Columns: []string{"name"}, LoggerName: "user_data", Level: formatter.LevelInfo}

	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{name: "table injection", modify: func(o *Options) { o.Table = "users;DROP TABLE users" }},
		{name: "column injection", modify: func(o *Options) { o.Columns = []string{"name", "1=1"} }},
		{name: "no columns", modify: func(o *Options) { o.Columns = nil }},
		{name: "no logger name", modify: func(o *Options) { o.LoggerName = "" }},
		{name: "zero level", modify: func(o *Options) { o.Level = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.modify(&opts)
			if _, err := NewSQLSource(db, "sqlite", opts, nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	src, err := NewSQLSource(db, "sqlite", base, nil)
	if err != nil {
		t.Fatalf("NewSQLSource() error = %v", err)
	}
	if src.Query() != "SELECT name FROM users;" {
		t.Errorf("Query() = %q", src.Query())
	}
}

func TestOpen_Errors(t *testing.T) {
	_, srcCfg := sqliteConfig("sqlite", "")

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "oracle"}, srcCfg, nil)
		var srcErr *Error
		if !errors.As(err, &srcErr) || srcErr.Op != "open" {
			t.Errorf("expected open error, got %v", err)
		}
	})

	t.Run("bad level", func(t *testing.T) {
		bad := *srcCfg
		bad.Level = "loud"
		if _, err := Open(context.Background(), &config.DatabaseConfig{Driver: "sqlite", Path: "x.db"}, &bad, nil); err == nil {
			t.Error("expected error for invalid level")
		}
	})

	t.Run("unreachable postgres", func(t *testing.T) {
		dbCfg := &config.DatabaseConfig{
			Driver:         "pgx",
			Host:           "127.0.0.1",
			Port:           1,
			Name:           "users",
			User:           "root",
			ConnectTimeout: 500 * time.Millisecond,
		}
		_, err := Open(context.Background(), dbCfg, srcCfg, nil)
		var srcErr *Error
		if !errors.As(err, &srcErr) || srcErr.Op != "ping" {
			t.Errorf("expected ping error, got %v", err)
		}
	})
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "None"},
		{name: "bytes", value: []byte("bob@x.com"), want: "bob@x.com"},
		{name: "string", value: "Bob", want: "Bob"},
		{name: "int", value: int64(42), want: "42"},
		{name: "float", value: 1.5, want: "1.5"},
		{name: "bool", value: true, want: "true"},
		{name: "time", value: time.Date(2019, 11, 14, 6, 14, 24, 500, time.UTC), want: "2019-11-14 06:14:24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(tt.value); got != tt.want {
				t.Errorf("render(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
