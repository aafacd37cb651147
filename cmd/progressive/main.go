package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gcstr/progressive/internal/cli"
)

var (
	execCLI      = cli.Execute
	notifySignal = signal.Notify
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancel the root context on SIGINT or SIGTERM so a running demo
	// releases its estimator before exiting.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	notifySignal(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return execCLI(ctx)
}
