// Package source reads the records piilog formats.
//
// SQLSource selects the configured columns from one table and renders each
// row the way the legacy personal-data job did:
//
//	name=Bob; email=bob@x.com; phone=555-0100; ...; user_agent=Mozilla/5.0;
//
// NULL columns render as "None", byte slices as text, and time columns as
// "2006-01-02 15:04:05". Supported drivers:
//
//   - mysql: github.com/go-sql-driver/mysql
//   - pgx: github.com/jackc/pgx/v5/stdlib
//   - sqlite: modernc.org/sqlite (pure Go)
//   - sqlite3: github.com/mattn/go-sqlite3 (cgo)
//
// Table and column names are interpolated into the query, so both are
// restricted to plain identifiers. SQLite databases are opened query-only.
package source
