// Package main is the entry point for the modsync command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "modsync:", err)
		stop()
		os.Exit(1)
	}
}
