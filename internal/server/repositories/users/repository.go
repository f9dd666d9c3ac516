// Package users stores accounts. Implementations hand out *models.Account
// values only; the password hash stays inside the record they hydrate from.
package users

import (
	"context"

	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/google/uuid"
)

// Repository is the storage surface for accounts.
//
// Lookups and updates of a missing account return common.ErrorNotFound.
// A duplicate username returns common.ErrorAlreadyExists. Other storage
// faults wrap common.ErrorStorageUnavailable.
type Repository interface {
	// List returns every account in storage order. There is no paging.
	List(ctx context.Context) ([]*models.Account, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Account, error)
	// FindByUsername matches exactly; comparison is case-sensitive.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	// Create inserts rec. ID and CreatedAt are assigned by storage.
	Create(ctx context.Context, rec *models.AccountRecord) (*models.Account, error)
	// Update overwrites every field of p; the hash is untouched.
	Update(ctx context.Context, id uuid.UUID, p *models.ProfileUpdate) (*models.Account, error)
	UpdateBio(ctx context.Context, id uuid.UUID, bio string) (*models.Account, error)
	UpdatePicture(ctx context.Context, id uuid.UUID, pictureURL *string) (*models.Account, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	// DeleteAll wipes the table. Reset/test use only.
	DeleteAll(ctx context.Context) error
}
