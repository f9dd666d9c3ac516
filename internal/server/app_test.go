package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/civicfollow/internal/dbx"
	"github.com/dmitrijs2005/civicfollow/internal/logging"
	"github.com/dmitrijs2005/civicfollow/internal/server/config"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/civicfollow/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func TestNewApp_OpenError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(ctx context.Context, dsn string, o dbx.PoolOptions) (*sql.DB, error) {
		return nil, errors.New("refused")
	}

	_, err := NewApp(context.Background(), testConfig(), logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error: refused")
}

func TestNewApp_MigrationErrorClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(ctx context.Context, dsn string, o dbx.PoolOptions) (*sql.DB, error) {
		return db, nil
	}

	// Every goose statement is unexpected and fails; only Close is allowed.
	mock.ExpectClose()

	_, err = NewApp(context.Background(), testConfig(), logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations error")
}

func TestNewAppWith_WiresServices(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	app := NewAppWith(testConfig(), logging.Discard(), db, repomanager.NewMemoryRepositoryManager())
	require.NotNil(t, app.Accounts)
	require.NotNil(t, app.Follows)
	require.NotNil(t, app.Pictures)
	assert.NotNil(t, app.Logger())

	ctx := context.Background()
	a, err := app.Accounts.Create(ctx, services.NewAccount{Username: "alice", Password: "p@ss1"})
	require.NoError(t, err)
	ok, err := app.Follows.FollowUser(ctx, a.ID, a.ID, a.Username)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectClose()
	require.NoError(t, app.Close())
	require.NoError(t, (&App{}).Close())
}

func TestWithSignals_CancelStopsWatcher(t *testing.T) {
	ctx, cancel := WithSignals(context.Background())
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
