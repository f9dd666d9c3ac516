// Package followers stores the directed follow graph between accounts.
package followers

import (
	"context"

	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/google/uuid"
)

// Repository is the storage surface for follow edges.
//
// An edge is unique on (follower, followed, username). Ids are not checked
// against users; callers pass ids of existing accounts.
type Repository interface {
	// Follow inserts the edge unless it already exists and reports whether
	// a row was written. Concurrent identical calls produce one true.
	Follow(ctx context.Context, follower, followed uuid.UUID, username string) (bool, error)
	// Unfollow removes every edge of the pair whatever its username snapshot.
	Unfollow(ctx context.Context, follower, followed uuid.UUID) (bool, error)
	// Followers lists edges whose followed side is userID.
	Followers(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error)
	// Followed lists edges whose follower side is userID.
	Followed(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error)
	// Create inserts unconditionally; a duplicate is common.ErrorAlreadyExists.
	Create(ctx context.Context, edge *models.FollowEdge) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowed(ctx context.Context, userID uuid.UUID) (int64, error)
	IsFollowing(ctx context.Context, follower, followed uuid.UUID) (bool, error)
	DeleteAll(ctx context.Context) error
}
