package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/civicfollow/internal/server/migrations"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/followers"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ RepositoryManager = (*PostgresRepositoryManager)(nil)
	_ RepositoryManager = (*MemoryRepositoryManager)(nil)
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager()

	u := m.Users(db)
	if u == nil {
		t.Fatal("Users() nil")
	}
	f := m.Followers(db)
	if f == nil {
		t.Fatal("Followers() nil")
	}

	assert.IsType(t, &users.PostgresRepository{}, u)
	assert.IsType(t, &followers.PostgresRepository{}, f)
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	require.Equal(t, []string{"00001_create_users.sql", "00002_create_followers.sql"}, names)

	body, err := fs.ReadFile(migrations.Migrations, "00002_create_followers.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "UNIQUE (follower_id, followed_id, username)"))
	assert.True(t, strings.Contains(string(body), "-- +goose Down"))
}

func TestMemoryManager_SharesStores(t *testing.T) {
	m := NewMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), nil))

	assert.Same(t, m.Users(nil), m.Users(nil))
	assert.Same(t, m.Followers(nil), m.Followers(nil))
}
