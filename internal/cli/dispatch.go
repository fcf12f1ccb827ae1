// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"kzone/internal/commands"
	"kzone/internal/config"
	"kzone/internal/exitcode"
	"kzone/internal/output"
	"kzone/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory

	// Getenv reads the environment; os.Getenv unless replaced in tests.
	Getenv config.Getenv
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		Getenv:   os.Getenv,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> usage
	if len(args) == 0 {
		return d.dispatch(ctx, "help", nil, out, errOut)
	}

	cmdName := args[0]
	if cmdName == "-h" || cmdName == "--help" {
		return d.dispatch(ctx, "help", nil, out, errOut)
	}

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		return usageError(out, "unknown command: %s", cmdName)
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		return usageError(out, "unknown command: %s", cmdName)
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var (
		configDir string
		board     string
		timeout   time.Duration
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&board, "board", "", "")
	fs.DurationVar(&timeout, "timeout", config.DefaultTimeout, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(out, "Usage: %s\n", cmd.Usage())
			return exitcode.Success
		}
		return usageError(out, "%s", flagError(err))
	}

	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		return usageError(out, "unknown flag: %s", positionalArgs[0])
	}
	if timeout <= 0 {
		return usageError(out, "invalid timeout: %s", timeout)
	}

	cfg, err := config.Load(configDir, d.Getenv)
	if err != nil {
		return fail(out, service.ConfigError(err))
	}
	cfg.OverrideBoard(board)
	cfg.Timeout = timeout
	cfg.Debug = debug
	if debug {
		cfg.Logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	cfg.Logger.Debug("dispatch", "command", cmd.Name(), "board", cfg.Board, "base_url", cfg.BaseURL)

	var svc service.Service
	if cmd.NeedsService() {
		if d.factory == nil {
			return fail(out, service.ConfigError(errNoBackend))
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			return fail(out, err)
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()
	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	return errStr
}

func usageError(out io.Writer, format string, args ...any) int {
	return fail(out, service.Validationf(format, args...))
}

func fail(out io.Writer, err error) int {
	output.Error(out, err)
	return exitcode.Failure
}

var errNoBackend = errors.New("no backend configured")
