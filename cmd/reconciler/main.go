package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rental-reconciliation/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// cobra has already printed the error.
	if err := cli.Execute(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
