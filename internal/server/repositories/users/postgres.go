package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/dmitrijs2005/civicfollow/internal/dbx"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/google/uuid"
)

const accountColumns = `id, username, password_hash, is_rep, first_name, last_name, zipcode, state, bio, location, picture_url, created_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	rec := &models.AccountRecord{}
	err := row.Scan(&rec.ID, &rec.Username, &rec.PasswordHash, &rec.IsRep,
		&rec.FirstName, &rec.LastName, &rec.Zipcode, &rec.State,
		&rec.Bio, &rec.Location, &rec.PictureURL, &rec.CreatedAt)
	if err != nil {
		return nil, dbx.ClassifyError(err)
	}
	return models.HydrateAccount(rec)
}

// queryOne runs a single-row statement; sql.ErrNoRows becomes common.ErrorNotFound.
func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.ClassifyError(err)
	}
	defer rows.Close()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.ClassifyError(err)
	}

	return accounts, nil
}

func (r *PostgresRepository) Find(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users
		WHERE username = $1`
	return r.queryOne(ctx, query, username)
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.AccountRecord) (*models.Account, error) {
	query := `INSERT INTO users (username, password_hash, is_rep, first_name, last_name, zipcode, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns

	return r.queryOne(ctx, query,
		rec.Username, rec.PasswordHash, rec.IsRep, rec.FirstName, rec.LastName, rec.Zipcode, rec.State)
}

func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, p *models.ProfileUpdate) (*models.Account, error) {
	query := `UPDATE users
		SET username = $1,
			first_name = $2,
			last_name = $3,
			picture_url = $4,
			zipcode = $5,
			state = $6,
			location = $7,
			bio = $8
		WHERE id = $9
		RETURNING ` + accountColumns

	return r.queryOne(ctx, query,
		p.Username, p.FirstName, p.LastName, nullString(p.PictureURL), p.Zipcode, p.State, p.Location, p.Bio, id)
}

func (r *PostgresRepository) UpdateBio(ctx context.Context, id uuid.UUID, bio string) (*models.Account, error) {
	query := `UPDATE users
		SET bio = $1
		WHERE id = $2
		RETURNING ` + accountColumns
	return r.queryOne(ctx, query, bio, id)
}

func (r *PostgresRepository) UpdatePicture(ctx context.Context, id uuid.UUID, pictureURL *string) (*models.Account, error) {
	query := `UPDATE users
		SET picture_url = $1
		WHERE id = $2
		RETURNING ` + accountColumns
	return r.queryOne(ctx, query, nullString(pictureURL), id)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users
		SET password_hash = $1
		WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return dbx.ClassifyError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.ClassifyError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return dbx.ClassifyError(err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
