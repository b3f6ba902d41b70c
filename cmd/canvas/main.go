// Command canvas previews generated components and runs code in isolation.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmgilman/canvas/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
