// Package main is the entry point for the todoctl CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todoctl/internal/cli"
	"todoctl/internal/commands"
)

func main() {
	os.Exit(run())
}

// run dispatches os.Args and returns the exit code.
func run() int {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// A nil factory picks the backend named in config.toml
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)
	return dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
