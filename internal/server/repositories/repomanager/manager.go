// Package repomanager vends repositories bound to a dbx.DBTX so services can
// run the same repository code inside or outside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/civicfollow/internal/dbx"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/followers"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Followers(db dbx.DBTX) followers.Repository
}
