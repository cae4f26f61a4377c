// Package logging provides structured operational logging with PII redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON or text output at a configurable level
//   - Redaction of configured PII fields in attribute values and messages
//   - Run and trace identifiers taken from the context
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg))
//	if err != nil {
//	    return err
//	}
//
//	logger.Info("source opened", "table", "users")
//	logger.Info("row skipped", "email", "bob@x.com") // email=***
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "run finished") // includes run_id
//
// Slog returns the underlying *slog.Logger, which carries the same
// redaction, for packages that take a plain slog logger.
//
// # PII Redaction
//
// Redaction cannot be disabled. An attribute keyed by a configured field
// (for example "email") or by a credential-looking key ("db_password",
// "token") is replaced by "***". String values are rewritten with the same
// field matcher the formatter uses, so "failed row name=Bob;age=3;" is
// logged as "failed row name=***;age=3;".
package logging
