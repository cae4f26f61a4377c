package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"piilog-hq/piilog/pkg/cli"
	"piilog-hq/piilog/pkg/redact"
)

var redactFlags struct {
	fields    []string
	separator string
}

var redactCmd = &cobra.Command{
	Use:   "redact",
	Short: "Redact key=value lines read from stdin",
	Long: `Read key=value messages from stdin, one per line, and write each with the
values of sensitive fields replaced by "***". Only the message is rewritten;
no prefix or timestamp is added.

Examples:
  # Use the configured field set
  echo "name=Bob;email=bob@x.com;age=30;" | piilog redact

  # Redact only email, pairs separated by commas
  piilog redact --fields email --separator , < messages.txt`,
	Args: cobra.NoArgs,
	RunE: redactLines,
}

func init() {
	rootCmd.AddCommand(redactCmd)

	redactCmd.Flags().StringSliceVar(&redactFlags.fields, "fields", nil, "sensitive field names (overrides redaction.fields)")
	redactCmd.Flags().StringVar(&redactFlags.separator, "separator", "", "pair separator (overrides redaction.separator)")
}

func redactLines(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fields := cfg.Redaction.Fields
	if cmd.Flags().Changed("fields") {
		fields = redactFlags.fields
	}
	separator := cfg.Redaction.Separator
	if redactFlags.separator != "" {
		separator = redactFlags.separator
	}

	matcher, err := redact.Build(redact.NewFieldSet(fields...), separator)
	if err != nil {
		return cli.NewConfigError("redaction", err.Error())
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	for scanner.Scan() {
		if _, err := fmt.Fprintln(out, matcher.Redact(scanner.Text(), redact.Token)); err != nil {
			return cli.NewCommandError("redact", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cli.NewCommandError("redact", fmt.Errorf("failed to read input: %w", err))
	}
	return nil
}
