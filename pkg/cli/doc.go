/*
Package cli provides command-line helpers for the piilog command.

Output Formatting:

Command results render as text or indented JSON. A run, failed or not,
prints a RunReport built from the summary and error Run returned:

	summary, err := runner.Run(ctx)
	_ = cli.Render(os.Stderr, cli.FormatJSON, cli.NewRunReport(summary, err))

Progress Reporting:

RunProgress implements pipeline.Progress and draws one line on stderr with
the records emitted, skipped and filtered so far:

	progress := cli.NewRunProgress(os.Stderr)
	runner, _ := pipeline.NewRunner(src, logger, pipeline.WithProgress(progress))

Errors:

ConfigError and CommandError carry the failing field or command. ExitCode
maps them to the process exit status.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
