package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"piilog-hq/piilog/pkg/cli"
	"piilog-hq/piilog/pkg/config"
	"piilog-hq/piilog/pkg/source"
)

var validateFlags struct {
	connect bool
	output  string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file with environment overrides and report every
invalid setting. With --connect, also open the record source and check that
the database answers.

Examples:
  # Check the default piilog.yaml
  piilog validate

  # Check a file and the database behind it, reporting JSON
  piilog validate --config /etc/piilog/piilog.yaml --connect --output json`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.connect, "connect", false, "also connect to the configured database")
	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format: text, json")
}

// validationReport is the result of the validate command.
type validationReport struct {
	Valid     bool                `json:"valid"`
	Source    string              `json:"source"`
	Errors    []config.FieldError `json:"errors,omitempty"`
	Connected *bool               `json:"connected,omitempty"`
	Message   string              `json:"message,omitempty"`
}

func (r validationReport) String() string {
	if r.Valid {
		msg := fmt.Sprintf("✓ Configuration valid (%s)", r.Source)
		if r.Connected != nil {
			msg += "\n✓ Database reachable"
		}
		return msg
	}

	msg := fmt.Sprintf("✗ Configuration invalid (%s)", r.Source)
	for _, fe := range r.Errors {
		msg += fmt.Sprintf("\n  - %s", fe.Error())
	}
	if r.Message != "" {
		msg += "\n  - " + r.Message
	}
	return msg
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.output)
	if err != nil {
		return err
	}

	report := validationReport{Source: cfgFile}
	if !configFileExists() && !cmd.Flags().Changed("config") {
		report.Source = "defaults and environment"
	}

	cfg, loadErr := loadConfig(cmd)
	if loadErr != nil {
		var verr config.ValidationError
		if errors.As(loadErr, &verr) {
			report.Errors = verr.Errors
		} else {
			report.Message = loadErr.Error()
		}
		if err := printReport(cmd.OutOrStdout(), format, report); err != nil {
			return err
		}
		return loadErr
	}

	report.Valid = true
	if validateFlags.connect {
		connected, err := checkConnection(cmd.Context(), cfg)
		report.Connected = &connected
		if err != nil {
			report.Valid = false
			report.Message = err.Error()
			if perr := printReport(cmd.OutOrStdout(), format, report); perr != nil {
				return perr
			}
			return cli.NewCommandError("validate", err)
		}
	}

	return printReport(cmd.OutOrStdout(), format, report)
}

// checkConnection opens the source, which pings the database once.
func checkConnection(ctx context.Context, cfg *config.Config) (bool, error) {
	src, err := source.Open(ctx, &cfg.Database, &cfg.Source, nil)
	if err != nil {
		return false, err
	}
	return true, src.Close()
}

func printReport(w io.Writer, format cli.OutputFormat, report validationReport) error {
	return cli.Render(w, format, report)
}
