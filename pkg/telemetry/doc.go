// Package telemetry groups piilog's own observability.
//
// # Components
//
//   - logging: structured diagnostics with PII redaction
//   - metrics: Prometheus counters and histograms for runs and records
//   - tracing: OpenTelemetry spans for runs and source reads
//   - health: liveness and readiness probes served next to /metrics
//
// None of these components see formatted record lines. Diagnostics that
// mention record content pass through the same field matcher as the
// formatter, so a misconfigured log level cannot leak a value that the
// formatted output hides.
package telemetry
