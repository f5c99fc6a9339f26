// Command brandkit drafts and manages brand packs from the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/opencode-ai/brandkit/internal/cli"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, version)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
