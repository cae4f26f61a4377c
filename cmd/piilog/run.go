package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"piilog-hq/piilog/pkg/cli"
	"piilog-hq/piilog/pkg/config"
	"piilog-hq/piilog/pkg/pipeline"
	"piilog-hq/piilog/pkg/sink"
	"piilog-hq/piilog/pkg/source"
	"piilog-hq/piilog/pkg/telemetry/health"
	"piilog-hq/piilog/pkg/telemetry/metrics"
	"piilog-hq/piilog/pkg/telemetry/tracing"
)

var runFlags struct {
	schedule  string
	watch     bool
	outPath   string
	output    string
	progress  bool
	onInvalid string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Emit redacted records from the personal-data database",
	Long: `Read every row of the configured table, redact sensitive fields and write one
line per row to stdout (or --out).

Without --schedule the command performs a single run and prints a summary to
stderr. With --schedule it repeats on the cron expression until interrupted,
serving /metrics, /health and /ready when metrics are enabled. --watch
reloads the redaction settings whenever the config file changes.

Examples:
  # One run with the default configuration
  piilog run

  # Abort on the first record that cannot be formatted
  piilog run --on-invalid abort

  # Every 15 minutes, appending to a file
  piilog run --schedule "*/15 * * * *" --out /var/log/piilog/users.log --watch`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.schedule, "schedule", "", "cron expression for repeated runs (overrides pipeline.schedule)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload redaction settings when the config file changes")
	runCmd.Flags().StringVar(&runFlags.outPath, "out", "", "append lines to this file instead of stdout")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "text", "summary format: text, json")
	runCmd.Flags().BoolVar(&runFlags.progress, "progress", false, "draw a progress bar on stderr")
	runCmd.Flags().StringVar(&runFlags.onInvalid, "on-invalid", "", "invalid record policy: skip, abort (overrides pipeline.on_invalid)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.schedule != "" {
		cfg.Pipeline.Schedule = runFlags.schedule
	}
	if runFlags.watch {
		cfg.Pipeline.Watch = true
	}
	if runFlags.onInvalid != "" {
		cfg.Pipeline.OnInvalid = runFlags.onInvalid
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError(cfgFile, err)
	}
	if cfg.Pipeline.Watch && cfg.Pipeline.Schedule == "" {
		return cli.NewConfigError("pipeline.watch", "watching requires a schedule")
	}
	if cfg.Pipeline.Watch && !configFileExists() {
		return cli.NewConfigError("pipeline.watch", fmt.Sprintf("config file %s does not exist", cfgFile))
	}

	format, err := cli.ParseOutputFormat(runFlags.output)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	logger := log.Slog()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithVersion(Version), tracing.WithWriter(cmd.ErrOrStderr()))
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	src, err := source.Open(ctx, &cfg.Database, &cfg.Source, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	out, err := openSink(cmd)
	if err != nil {
		src.Close()
		return cli.NewCommandError("run", err)
	}

	recordLogger, err := pipeline.NewLogger(cfg, out)
	if err != nil {
		src.Close()
		out.Close()
		return cli.WrapConfigError(cfgFile, err)
	}

	opts, err := pipeline.RunnerOptions(&cfg.Pipeline)
	if err != nil {
		src.Close()
		out.Close()
		return cli.WrapConfigError(cfgFile, err)
	}
	opts = append(opts,
		pipeline.WithMetrics(collector),
		pipeline.WithTracer(tracer),
		pipeline.WithLogger(logger),
	)
	if runFlags.progress {
		opts = append(opts, pipeline.WithProgress(cli.NewRunProgress(cmd.ErrOrStderr())))
	}

	runner, err := pipeline.NewRunner(src, recordLogger, opts...)
	if err != nil {
		src.Close()
		out.Close()
		return cli.NewCommandError("run", err)
	}
	defer runner.Close()

	if cfg.Pipeline.Schedule == "" {
		summary, runErr := runner.Run(ctx)
		if err := cli.Render(cmd.ErrOrStderr(), format, cli.NewRunReport(summary, runErr)); err != nil && runErr == nil {
			return err
		}
		if runErr != nil {
			return cli.NewCommandError("run", runErr)
		}
		return nil
	}

	return serve(ctx, cmd, cfg, runner, src, recordLogger, collector, logger)
}

// serve runs on the schedule until ctx is cancelled.
func serve(ctx context.Context, cmd *cobra.Command, cfg *config.Config, runner *pipeline.Runner,
	src *source.SQLSource, recordLogger *sink.Logger, collector *metrics.Collector, logger *slog.Logger) error {
	errCh := make(chan error, 2)

	if collector.Enabled() {
		checker := health.New(src, runner, cfg.Database.ConnectTimeout)

		go func() {
			errCh <- collector.Serve(ctx, logger, func(mux *http.ServeMux) {
				health.Mount(mux, checker, versionInfo())
			})
		}()
	}

	if cfg.Pipeline.Watch {
		reloader, err := pipeline.NewReloader(cfgFile, cfg.Pipeline.WatchDebounce, recordLogger, collector, logger)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer reloader.Stop()

		go func() {
			errCh <- reloader.Watch(ctx)
		}()
	}

	scheduler := pipeline.NewScheduler(runner, cfg.Pipeline.Schedule, logger)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer scheduler.Stop()

	if next := scheduler.NextRun(); next != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Scheduled %q, next run at %s\n", cfg.Pipeline.Schedule, next.Format(time.RFC3339))
	}
	if collector.Enabled() {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Metrics endpoint: http://%s%s\n", cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(cmd.ErrOrStderr(), "\nShutting down...")
			return nil
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return cli.NewCommandError("run", err)
			}
		}
	}
}

// openSink returns the file named by --out, or the command's stdout.
func openSink(cmd *cobra.Command) (sink.Sink, error) {
	if runFlags.outPath != "" {
		return sink.OpenFile(runFlags.outPath)
	}
	return sink.NewWriterSink(cmd.OutOrStdout()), nil
}
