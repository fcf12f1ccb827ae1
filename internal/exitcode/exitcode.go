// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// Failure covers every error: validation, transport, remote and
	// pagination exhaustion all exit with the same status.
	Failure = 1
)
