package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"piilog-hq/piilog/pkg/cli"
	"piilog-hq/piilog/pkg/config"
	"piilog-hq/piilog/pkg/telemetry/logging"
)

// defaultConfigFile is read when present; without it piilog runs on
// defaults and environment variables.
const defaultConfigFile = "piilog.yaml"

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "piilog",
	Short: "piilog - redact personal data from log records",
	Long: `piilog turns rows of a personal-data table into log lines and replaces the
values of sensitive fields (name, email, phone, ssn, password by default)
with "***" before anything reaches the output.

Lines have the form:
  [PREFIX] user_data INFO 2019-11-19 18:24:25,105: name=***; email=***; ip=10.0.0.1;

Configuration comes from piilog.yaml when present, then from the
PERSONAL_DATA_DB_* and PIILOG_* environment variables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration file with environment overrides. A
// missing default file falls back to defaults; a missing file named with
// --config is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err == nil {
		return cfg, nil
	}

	explicit := cmd.Flags().Changed("config")
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.LoadDefault()
		if err != nil {
			return nil, cli.WrapConfigError("environment", err)
		}
		return cfg, nil
	}
	return nil, cli.WrapConfigError(cfgFile, err)
}

// configFileExists reports whether cfgFile names a readable file.
func configFileExists() bool {
	info, err := os.Stat(cfgFile)
	return err == nil && !info.IsDir()
}

// newLogger builds the operational logger. It writes to the command's
// stderr so redacted records on stdout stay clean.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	lc := logging.FromConfig(cfg)
	lc.Writer = cmd.ErrOrStderr()
	if verbose {
		lc.Level = "debug"
	}

	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}
