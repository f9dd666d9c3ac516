// Command server prepares the civicfollow database: it connects with the
// configured DSN, applies pending migrations and exits.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/civicfollow/internal/logging"
	"github.com/dmitrijs2005/civicfollow/internal/server"
	"github.com/dmitrijs2005/civicfollow/internal/server/config"
)

func main() {

	ctx, cancel := server.WithSignals(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Close(); err != nil {
		log.Printf("%v", err)
		return
	}
	logger.Info(ctx, "schema up to date")

}
