package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on piilog spans. Values never include row content.
const (
	AttrRunID    = "piilog.run_id"
	AttrLogger   = "piilog.logger"
	AttrFields   = "piilog.redaction.fields"
	AttrFetched  = "piilog.records.fetched"
	AttrEmitted  = "piilog.records.emitted"
	AttrSkipped  = "piilog.records.skipped"
	AttrFiltered = "piilog.records.filtered"

	AttrDBSystem = "db.system"
	AttrDBTable  = "db.sql.table"
)

// SetSourceAttributes records which database and table a span reads.
func SetSourceAttributes(span trace.Span, driver, table string) {
	span.SetAttributes(
		attribute.String(AttrDBSystem, dbSystem(driver)),
		attribute.String(AttrDBTable, table),
	)
}

// SetRunAttributes records run counters on a span.
func SetRunAttributes(span trace.Span, fetched, emitted, skipped, filtered int) {
	span.SetAttributes(
		attribute.Int(AttrFetched, fetched),
		attribute.Int(AttrEmitted, emitted),
		attribute.Int(AttrSkipped, skipped),
		attribute.Int(AttrFiltered, filtered),
	)
}

// dbSystem maps a database/sql driver name to its db.system value.
func dbSystem(driver string) string {
	switch driver {
	case "mysql":
		return "mysql"
	case "pgx":
		return "postgresql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return "other_sql"
	}
}
