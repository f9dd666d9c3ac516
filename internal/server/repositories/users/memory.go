package users

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository with the same contract as the
// Postgres one, including username uniqueness. It is safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.AccountRecord
	order   []uuid.UUID
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]models.AccountRecord),
		now:     time.Now,
	}
}

func (r *MemoryRepository) usernameTaken(username string, except uuid.UUID) bool {
	for id, rec := range r.records {
		if id != except && rec.Username == username {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*models.Account, 0, len(r.order))
	for _, id := range r.order {
		rec := r.records[id]
		a, err := models.HydrateAccount(&rec)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (r *MemoryRepository) Find(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return models.HydrateAccount(&rec)
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.Username == username {
			return models.HydrateAccount(&rec)
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Create(ctx context.Context, rec *models.AccountRecord) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.usernameTaken(rec.Username, uuid.Nil) {
		return nil, common.ErrorAlreadyExists
	}

	stored := models.AccountRecord{
		ID:           uuid.New(),
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		IsRep:        rec.IsRep,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Zipcode:      rec.Zipcode,
		State:        rec.State,
		CreatedAt:    r.now(),
	}
	r.records[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return models.HydrateAccount(&stored)
}

// modify applies fn to the stored record under the write lock.
func (r *MemoryRepository) modify(id uuid.UUID, fn func(rec *models.AccountRecord) error) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if err := fn(&rec); err != nil {
		return nil, err
	}
	r.records[id] = rec

	return models.HydrateAccount(&rec)
}

func (r *MemoryRepository) Update(ctx context.Context, id uuid.UUID, p *models.ProfileUpdate) (*models.Account, error) {
	return r.modify(id, func(rec *models.AccountRecord) error {
		if r.usernameTaken(p.Username, id) {
			return common.ErrorAlreadyExists
		}
		rec.Username = p.Username
		rec.FirstName = p.FirstName
		rec.LastName = p.LastName
		rec.PictureURL = nullString(p.PictureURL)
		rec.Zipcode = p.Zipcode
		rec.State = p.State
		rec.Location = sql.NullString{String: p.Location, Valid: true}
		rec.Bio = sql.NullString{String: p.Bio, Valid: true}
		return nil
	})
}

func (r *MemoryRepository) UpdateBio(ctx context.Context, id uuid.UUID, bio string) (*models.Account, error) {
	return r.modify(id, func(rec *models.AccountRecord) error {
		rec.Bio = sql.NullString{String: bio, Valid: true}
		return nil
	})
}

func (r *MemoryRepository) UpdatePicture(ctx context.Context, id uuid.UUID, pictureURL *string) (*models.Account, error) {
	return r.modify(id, func(rec *models.AccountRecord) error {
		rec.PictureURL = nullString(pictureURL)
		return nil
	})
}

func (r *MemoryRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := r.modify(id, func(rec *models.AccountRecord) error {
		rec.PasswordHash = hash
		return nil
	})
	return err
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[uuid.UUID]models.AccountRecord)
	r.order = nil
	return nil
}
