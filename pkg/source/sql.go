package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"piilog-hq/piilog/pkg/config"
	"piilog-hq/piilog/pkg/formatter"
)

// TimeLayout renders time columns the way the database client prints them.
const TimeLayout = "2006-01-02 15:04:05"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options selects what an SQLSource reads and how rows become records.
type Options struct {
	// Table is the table to read.
	Table string

	// Columns are selected in this order and rendered in this order.
	Columns []string

	// LoggerName is the record name of every fetched row.
	LoggerName string

	// Level is the record level of every fetched row.
	Level formatter.Level
}

// OptionsFromConfig converts the source section of the configuration.
func OptionsFromConfig(cfg *config.SourceConfig) (Options, error) {
	level, err := formatter.ParseLevel(cfg.Level)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Table:      cfg.Table,
		Columns:    append([]string(nil), cfg.Columns...),
		LoggerName: cfg.LoggerName,
		Level:      level,
	}, nil
}

func (o Options) validate() error {
	if !identifier.MatchString(o.Table) {
		return fmt.Errorf("invalid table name %q", o.Table)
	}
	if len(o.Columns) == 0 {
		return fmt.Errorf("no columns selected")
	}
	for _, c := range o.Columns {
		if !identifier.MatchString(c) {
			return fmt.Errorf("invalid column name %q", c)
		}
	}
	if o.LoggerName == "" {
		return fmt.Errorf("logger name is required")
	}
	if !o.Level.Valid() {
		return fmt.Errorf("invalid level %d", o.Level)
	}
	return nil
}

// SQLSource reads records from a table through database/sql.
type SQLSource struct {
	db     *sql.DB
	driver string
	opts   Options
	query  string
	logger *slog.Logger
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, db *config.DatabaseConfig, src *config.SourceConfig, logger *slog.Logger) (*SQLSource, error) {
	opts, err := OptionsFromConfig(src)
	if err != nil {
		return nil, newError(db.Driver, "open", err)
	}

	dsn, err := DSN(db)
	if err != nil {
		return nil, newError(db.Driver, "open", err)
	}

	conn, err := openDB(db.Driver, dsn)
	if err != nil {
		return nil, newError(db.Driver, "open", err)
	}

	if db.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(db.MaxOpenConns)
		conn.SetMaxIdleConns(db.MaxOpenConns)
	}
	conn.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx := ctx
	if db.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, db.ConnectTimeout)
		defer cancel()
	}
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, newError(db.Driver, "ping", err)
	}

	s, err := NewSQLSource(conn, db.Driver, opts, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// openDB opens a pool for driver. pgx is configured through its own parser
// so connection settings are checked before the first query.
func openDB(driver, dsn string) (*sql.DB, error) {
	if driver == "pgx" {
		cc, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, err
		}
		return stdlib.OpenDB(*cc), nil
	}
	return sql.Open(driver, dsn)
}

// NewSQLSource wraps an open database. The source owns db and closes it.
func NewSQLSource(db *sql.DB, driver string, opts Options, logger *slog.Logger) (*SQLSource, error) {
	if err := opts.validate(); err != nil {
		return nil, newError(driver, "open", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SQLSource{
		db:     db,
		driver: driver,
		opts:   opts,
		query:  fmt.Sprintf("SELECT %s FROM %s;", strings.Join(opts.Columns, ","), opts.Table),
		logger: logger.With("component", "source.sql", "driver", driver, "table", opts.Table),
	}, nil
}

// Query returns the statement the source runs.
func (s *SQLSource) Query() string {
	return s.query
}

// Driver returns the database/sql driver name.
func (s *SQLSource) Driver() string {
	return s.driver
}

// Table returns the table being read.
func (s *SQLSource) Table() string {
	return s.opts.Table
}

// Ping checks that the database is reachable.
func (s *SQLSource) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return newError(s.driver, "ping", err)
	}
	return nil
}

// FetchRows runs the query and renders every row.
func (s *SQLSource) FetchRows(ctx context.Context) ([]Row, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, newError(s.driver, "query", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, newError(s.driver, "scan", err)
	}

	values := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range values {
		ptrs[i] = &values[i]
	}

	var out []Row
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, newError(s.driver, "scan", err)
		}

		row := make(Row, len(names))
		for i, name := range names {
			row[i] = Column{Name: name, Value: render(values[i])}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(s.driver, "scan", err)
	}

	s.logger.Debug("rows fetched", "count", len(out), "duration", time.Since(start))
	return out, nil
}

// FetchRecords turns every row into a record.
func (s *SQLSource) FetchRecords(ctx context.Context) ([]formatter.Record, error) {
	rows, err := s.FetchRows(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]formatter.Record, len(rows))
	for i, row := range rows {
		records[i] = formatter.Record{
			Name:    s.opts.LoggerName,
			Level:   s.opts.Level,
			Message: row.Message(),
		}
	}
	return records, nil
}

// Close closes the database pool.
func (s *SQLSource) Close() error {
	if err := s.db.Close(); err != nil {
		return newError(s.driver, "close", err)
	}
	return nil
}

// render stringifies a scanned value.
func render(v any) string {
	switch val := v.(type) {
	case nil:
		return NullValue
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		return val.Format(TimeLayout)
	default:
		return fmt.Sprint(val)
	}
}
