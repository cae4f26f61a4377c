// Package tracing provides OpenTelemetry tracing for pipeline runs.
//
// Each run gets a "pipeline.run" span with a child "source.fetch" span for
// the database read. Spans carry counters and the table name, never row
// content.
//
// # Exporters
//
//   - otlp: OTLP over gRPC to telemetry.tracing.endpoint
//   - stdout: JSON spans written to standard output, for local debugging
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithVersion(version))
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "pipeline.run")
//	defer span.End()
//
// When tracing is disabled New returns a tracer backed by a noop provider.
package tracing
