package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/civicfollow/internal/dbx"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/followers"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out the same in-memory repositories whatever
// DBTX it is given. Writes made "inside" a transaction are not rolled back.
type MemoryRepositoryManager struct {
	users     *users.MemoryRepository
	followers *followers.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:     users.NewMemoryRepository(),
		followers: followers.NewMemoryRepository(),
	}
}

// RunMigrations is a no-op; there is no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Followers(dbx.DBTX) followers.Repository {
	return m.followers
}
