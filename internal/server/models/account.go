// Package models holds the domain types shared by repositories and services.
package models

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/dmitrijs2005/civicfollow/internal/cryptox"
	"github.com/google/uuid"
)

// Account is the caller-facing view of a user. The password hash is kept in
// an unexported field: it never appears in JSON, fmt or slog output and can
// only be observed through IsValidPassword.
type Account struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	IsRep      bool      `json:"is_rep"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Zipcode    string    `json:"zipcode"`
	State      string    `json:"state"`
	Bio        string    `json:"bio"`
	Location   string    `json:"location"`
	PictureURL *string   `json:"picture_url"`
	CreatedAt  time.Time `json:"created_at"`

	passwordHash string
}

// IsValidPassword reports whether candidate matches the account's password.
// A missing or corrupt hash never matches.
func (a *Account) IsValidPassword(candidate string) bool {
	return cryptox.VerifyPassword(candidate, a.passwordHash)
}

// PasswordNeedsRehash reports whether the stored hash should be upgraded to
// h's algorithm and parameters.
func (a *Account) PasswordNeedsRehash(h *cryptox.Hasher) bool {
	return h.NeedsRehash(a.passwordHash)
}

// String implements fmt.Stringer so %v and %+v never print the hash.
func (a Account) String() string {
	return fmt.Sprintf("Account{ID:%s Username:%s IsRep:%t}", a.ID, a.Username, a.IsRep)
}

// GoString covers %#v.
func (a Account) GoString() string {
	return a.String()
}

// LogValue implements slog.LogValuer.
func (a Account) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", a.ID.String()),
		slog.String("username", a.Username),
		slog.Bool("is_rep", a.IsRep),
	)
}

// AccountRecord is the storage shape of a users row, hash included.
// Only repositories build it; everything above them sees *Account.
type AccountRecord struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	IsRep        bool
	FirstName    string
	LastName     string
	Zipcode      string
	State        string
	Bio          sql.NullString
	Location     sql.NullString
	PictureURL   sql.NullString
	CreatedAt    time.Time
}

// HydrateAccount maps a storage record onto an Account, sealing the hash.
// ID and username are required; NULL bio and location become "" and a NULL
// picture stays nil. An empty hash is accepted and simply never verifies.
func HydrateAccount(rec *AccountRecord) (*Account, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil account record", common.ErrorIncorrectRecord)
	}
	if rec.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: account without id", common.ErrorIncorrectRecord)
	}
	if rec.Username == "" {
		return nil, fmt.Errorf("%w: account %s without username", common.ErrorIncorrectRecord, rec.ID)
	}

	a := &Account{
		ID:           rec.ID,
		Username:     rec.Username,
		IsRep:        rec.IsRep,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Zipcode:      rec.Zipcode,
		State:        rec.State,
		Bio:          rec.Bio.String,
		Location:     rec.Location.String,
		CreatedAt:    rec.CreatedAt,
		passwordHash: rec.PasswordHash,
	}
	if rec.PictureURL.Valid {
		url := rec.PictureURL.String
		a.PictureURL = &url
	}

	return a, nil
}

// ProfileUpdate carries every mutable profile field. Applying it REPLACES the
// stored values: a zero value clears the field, it does not mean "unchanged".
// Callers that want to change one field must copy the others from the current
// Account first (see ProfileOf).
type ProfileUpdate struct {
	Username   string
	FirstName  string
	LastName   string
	PictureURL *string
	Zipcode    string
	State      string
	Location   string
	Bio        string
}

// ProfileOf returns a ProfileUpdate pre-filled with a's current values.
func ProfileOf(a *Account) ProfileUpdate {
	return ProfileUpdate{
		Username:   a.Username,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		PictureURL: a.PictureURL,
		Zipcode:    a.Zipcode,
		State:      a.State,
		Location:   a.Location,
		Bio:        a.Bio,
	}
}
