// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"kzone/internal/config"
	"kzone/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the command name as typed on the command line.
	Name() string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command talks to the API.
	// help and version return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags. It must also reset
	// any state left over from a previous run.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// svc is nil if NeedsService() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
