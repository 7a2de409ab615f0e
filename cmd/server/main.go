// Command server runs the libris HTTP API.
//
// Configuration is read from CONFIG_PATH (YAML) and environment variables;
// see internal/config for the full list. The server shuts down gracefully
// on SIGINT and SIGTERM.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/libris-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
