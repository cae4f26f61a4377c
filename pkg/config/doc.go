// Package config provides configuration management for piilog.
//
// This package handles loading, validating, and watching configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in three ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("piilog.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("piilog.yaml")
//
//  3. From defaults and environment variables, without a file:
//     cfg, err := config.LoadDefault()
//
// # Environment Variable Overrides
//
// The personal-data database is located with the same variables the legacy
// scripts used:
//
//   - PERSONAL_DATA_DB_HOST (default "localhost")
//   - PERSONAL_DATA_DB_NAME
//   - PERSONAL_DATA_DB_USERNAME (default "root")
//   - PERSONAL_DATA_DB_PASSWORD
//
// Every other setting follows PIILOG_SECTION_FIELD, for example
// PIILOG_REDACTION_FIELDS=name,email or PIILOG_TELEMETRY_LOGGING_LEVEL=debug.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Watching
//
// Watcher reports debounced changes to the configuration file so the
// redaction settings can be rebuilt without restarting a scheduled run.
//
// # Example Configuration
//
//	database:
//	  driver: mysql
//	  host: localhost
//	  name: my_db
//	source:
//	  table: users
//	  logger_name: user_data
//	redaction:
//	  fields: [name, email, phone, ssn, password]
//	  separator: ";"
//	  prefix: HOLBERTON
//	pipeline:
//	  on_invalid: skip
//	  schedule: "*/15 * * * *"
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config
