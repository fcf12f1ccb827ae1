// Package main is the entry point for the kzone CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kzone/internal/backend/kanbanzone"
	"kzone/internal/cli"
	"kzone/internal/commands"
	"kzone/internal/config"
	"kzone/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return kanbanzone.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
