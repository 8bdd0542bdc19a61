// Command growthctl talks to a running growth dashboard service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/growthdash/pkg/logger"
)

func main() {
	// Logs go to stderr so table, json and yaml output stays clean.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
