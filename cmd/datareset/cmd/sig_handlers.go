// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// registerSIGINTHandler cancels the run on SIGINT or SIGTERM.
// Git commands and store requests in flight are interrupted, and the current stage reports the cancellation.
// The handler stops listening once ctx is done.
func registerSIGINTHandler(ctx context.Context, cancel context.CancelFunc) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signalChan)
		select {
		case <-signalChan:
			infoLogger.Println("Received interrupt, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()
}
