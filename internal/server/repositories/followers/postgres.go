package followers

import (
	"context"

	"github.com/dmitrijs2005/civicfollow/internal/dbx"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/google/uuid"
)

const edgeColumns = `id, follower_id, followed_id, username, created_at`

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dbx.ClassifyError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.ClassifyError(err)
	}
	return n, nil
}

func (r *PostgresRepository) Follow(ctx context.Context, follower, followed uuid.UUID, username string) (bool, error) {
	query := `INSERT INTO followers (follower_id, followed_id, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_id, followed_id, username) DO NOTHING`

	n, err := r.exec(ctx, query, follower, followed, username)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresRepository) Unfollow(ctx context.Context, follower, followed uuid.UUID) (bool, error) {
	query := `DELETE FROM followers
		WHERE follower_id = $1 AND followed_id = $2`

	n, err := r.exec(ctx, query, follower, followed)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.FollowEdge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.ClassifyError(err)
	}
	defer rows.Close()

	edges := make([]*models.FollowEdge, 0)
	for rows.Next() {
		e := &models.FollowEdge{}
		if err := rows.Scan(&e.ID, &e.FollowerID, &e.FollowedID, &e.Username, &e.CreatedAt); err != nil {
			return nil, dbx.ClassifyError(err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.ClassifyError(err)
	}
	return edges, nil
}

func (r *PostgresRepository) Followers(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error) {
	query := `SELECT ` + edgeColumns + ` FROM followers
		WHERE followed_id = $1
		ORDER BY id`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) Followed(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error) {
	query := `SELECT ` + edgeColumns + ` FROM followers
		WHERE follower_id = $1
		ORDER BY id`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) Create(ctx context.Context, edge *models.FollowEdge) (bool, error) {
	query := `INSERT INTO followers (follower_id, followed_id, username)
		VALUES ($1, $2, $3)`

	n, err := r.exec(ctx, query, edge.FollowerID, edge.FollowedID, edge.Username)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, dbx.ClassifyError(err)
	}
	return n, nil
}

func (r *PostgresRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM followers WHERE followed_id = $1`, userID)
}

func (r *PostgresRepository) CountFollowed(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM followers WHERE follower_id = $1`, userID)
}

func (r *PostgresRepository) IsFollowing(ctx context.Context, follower, followed uuid.UUID) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = $1 AND followed_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, follower, followed).Scan(&ok); err != nil {
		return false, dbx.ClassifyError(err)
	}
	return ok, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	_, err := r.exec(ctx, `DELETE FROM followers`)
	return err
}
