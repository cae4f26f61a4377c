package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"piilog-hq/piilog/pkg/cli"
	"piilog-hq/piilog/pkg/formatter"
	"piilog-hq/piilog/pkg/pipeline"
)

var formatFlags struct {
	name  string
	level string
}

var formatCmd = &cobra.Command{
	Use:   "format MESSAGE",
	Short: "Format one record as a redacted log line",
	Long: `Render a single record the way run does, with the configured prefix,
logger name, level and the current time.

Examples:
  piilog format "name=Bob;email=bob@x.com;age=30;"
  piilog format --name audit --level warning "ssn=123-45-6789;"`,
	Args: cobra.ExactArgs(1),
	RunE: formatRecord,
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().StringVar(&formatFlags.name, "name", "", "logger name (default source.logger_name)")
	formatCmd.Flags().StringVar(&formatFlags.level, "level", "", "record level (default source.level)")
}

func formatRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	name := cfg.Source.LoggerName
	if formatFlags.name != "" {
		name = formatFlags.name
	}
	levelName := cfg.Source.Level
	if formatFlags.level != "" {
		levelName = formatFlags.level
	}
	level, err := formatter.ParseLevel(levelName)
	if err != nil {
		return cli.NewConfigError("level", err.Error())
	}

	f, err := pipeline.NewFormatter(&cfg.Redaction)
	if err != nil {
		return cli.WrapConfigError(cfgFile, err)
	}

	line, err := f.Format(&formatter.Record{
		Name:    name,
		Level:   level,
		Message: strings.TrimRight(args[0], "\n"),
	})
	if err != nil {
		return cli.NewCommandError("format", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
	return err
}
