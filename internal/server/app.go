// Package server assembles the civicfollow core: it opens the database,
// applies migrations and builds the account, follow and picture services.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/civicfollow/internal/dbx"
	"github.com/dmitrijs2005/civicfollow/internal/logging"
	"github.com/dmitrijs2005/civicfollow/internal/server/config"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/civicfollow/internal/server/services"
)

// openDB is a seam for tests.
var openDB = dbx.Open

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	Accounts *services.AccountService
	Follows  *services.FollowService
	Pictures *services.PictureService
}

// NewApp connects to Postgres, migrates the schema and wires the services.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, cfg.DatabaseDSN, dbx.DefaultPoolOptions)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	logger.Info(ctx, "database ready")
	return NewAppWith(cfg, logger, db, m), nil
}

// NewAppWith wires the services over an already open db and manager.
func NewAppWith(cfg *config.Config, logger logging.Logger, db *sql.DB, m repomanager.RepositoryManager) *App {
	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		Accounts: services.NewAccountService(db, m, cfg, logger),
		Follows:  services.NewFollowService(db, m, cfg, logger),
		Pictures: services.NewPictureService(db, m, cfg, logger),
	}
}

func (app *App) Logger() logging.Logger {
	return app.logger
}

func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

// WithSignals returns a context cancelled on SIGINT, SIGTERM or SIGQUIT.
func WithSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelFunc := context.WithCancel(ctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()

	return ctx, cancelFunc
}
