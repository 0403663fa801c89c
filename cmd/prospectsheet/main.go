package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"prospectsheet/internal/cli"
	"prospectsheet/internal/util/logx"
)

func main() {
	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		logx.Errorf("prospectsheet exited with error: %v", err)
		cancel()
		os.Exit(1)
	}
}
