// Package metrics provides Prometheus metrics for piilog runs.
//
// # Metrics
//
// With the default namespace and subsystem:
//
//   - piilog_redaction_records_total{status}: emitted, skipped and filtered records
//   - piilog_redaction_fields_redacted_total{field}: redacted values per field
//   - piilog_redaction_format_duration_seconds: per-record formatting time
//   - piilog_redaction_runs_total{status}: runs by result
//   - piilog_redaction_run_duration_seconds{status}: run duration
//   - piilog_redaction_rows_fetched_total: rows read from the source
//   - piilog_redaction_last_success_timestamp_seconds: last successful run
//   - piilog_redaction_config_reloads_total{status}: configuration reloads
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	go collector.Serve(ctx, logger)
//
//	collector.RecordRecord(metrics.StatusEmitted)
//	collector.RecordRun(metrics.RunSuccess, time.Since(start), fetched)
//
// Field labels are capped at 100 distinct values; further fields are
// counted under "other".
package metrics
