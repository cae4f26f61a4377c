// Package health serves liveness and readiness probes for long-running
// piilog processes (scheduled or watching runs).
//
// Endpoints are mounted next to the Prometheus handler:
//
//   - /health: always 200 while the process runs
//   - /ready: 200 when the database answers and the last run succeeded, 503 otherwise
//   - /version: build information
//
// The readiness report carries the database ping and the counts and error
// of the most recent run. A process that has not run yet is ready.
package health
