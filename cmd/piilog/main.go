// piilog reads user records from the personal-data database and writes them
// as log lines with personally identifiable fields redacted.
//
// Usage:
//
//	# Emit every row of the users table once
//	piilog run
//
//	# Repeat every 15 minutes and pick up redaction changes from the file
//	piilog run --config piilog.yaml --schedule "*/15 * * * *" --watch
//
//	# Redact key=value lines from stdin
//	echo "name=Bob;email=bob@x.com;age=30;" | piilog redact
//
//	# Format a single record
//	piilog format --level warning "name=Bob;ssn=123;"
//
//	# Check a configuration file
//	piilog validate --config piilog.yaml
package main

func main() {
	Execute()
}
