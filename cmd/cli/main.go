package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/civicfollow/internal/buildinfo"
	"github.com/dmitrijs2005/civicfollow/internal/console"
	"github.com/dmitrijs2005/civicfollow/internal/logging"
	"github.com/dmitrijs2005/civicfollow/internal/server"
	"github.com/dmitrijs2005/civicfollow/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, cancel := server.WithSignals(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	console.NewApp(app.Accounts, app.Follows, app.Pictures, os.Stdin, os.Stdout).Run(ctx)

}
