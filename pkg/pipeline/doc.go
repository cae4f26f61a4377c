// Package pipeline moves records from a source to a redacting logger.
//
// A Runner performs one pass: fetch every record, format each one with the
// current redaction settings and emit it. Records that cannot be formatted
// are skipped or abort the run according to the on_invalid policy. The
// Scheduler repeats runs on a cron schedule, and the Reloader swaps in new
// redaction settings when the configuration file changes.
//
//	logger, _ := pipeline.NewLogger(cfg, sink.NewWriterSink(os.Stdout))
//	runner, _ := pipeline.NewRunner(src, logger, pipeline.WithPolicy(pipeline.PolicyAbort))
//	summary, err := runner.Run(ctx)
package pipeline
