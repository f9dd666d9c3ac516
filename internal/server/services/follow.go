package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/civicfollow/internal/logging"
	"github.com/dmitrijs2005/civicfollow/internal/server/config"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// FollowService mutates and queries the follow graph. It does not check
// that the ids belong to existing accounts.
type FollowService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	logger       logging.Logger
	queryTimeout time.Duration
}

func NewFollowService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *FollowService {
	return &FollowService{
		db:           db,
		repomanager:  m,
		logger:       logger.With("module", "follows"),
		queryTimeout: cfg.QueryTimeout,
	}
}

// FollowUser records that follower follows followed. username is the
// follower's display name snapshot. It reports false, with no error, when the
// same edge already exists.
func (s *FollowService) FollowUser(ctx context.Context, follower, followed uuid.UUID, username string) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	created, err := s.repomanager.Followers(s.db).Follow(ctx, follower, followed, username)
	if err != nil {
		return false, fmt.Errorf("follow: %w", err)
	}
	if created {
		s.logger.Info(ctx, "follow created", "follower_id", follower, "followed_id", followed)
	}
	return created, nil
}

// UnfollowUser removes every edge from follower to followed.
func (s *FollowService) UnfollowUser(ctx context.Context, follower, followed uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	removed, err := s.repomanager.Followers(s.db).Unfollow(ctx, follower, followed)
	if err != nil {
		return false, fmt.Errorf("unfollow: %w", err)
	}
	if removed {
		s.logger.Info(ctx, "follow removed", "follower_id", follower, "followed_id", followed)
	}
	return removed, nil
}

// GetFollowers returns the edges of accounts following userID.
func (s *FollowService) GetFollowers(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	edges, err := s.repomanager.Followers(s.db).Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get followers: %w", err)
	}
	return edges, nil
}

// GetFollowed returns the edges of accounts userID follows.
func (s *FollowService) GetFollowed(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	edges, err := s.repomanager.Followers(s.db).Followed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get followed: %w", err)
	}
	return edges, nil
}

// Create inserts edge without the existence check FollowUser does.
// A duplicate is reported as common.ErrorAlreadyExists.
func (s *FollowService) Create(ctx context.Context, edge models.FollowEdge) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	ok, err := s.repomanager.Followers(s.db).Create(ctx, &edge)
	if err != nil {
		return false, fmt.Errorf("create follow: %w", err)
	}
	return ok, nil
}

func (s *FollowService) Stats(ctx context.Context, userID uuid.UUID) (models.FollowStats, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	repo := s.repomanager.Followers(s.db)

	var st models.FollowStats
	var err error
	if st.Followers, err = repo.CountFollowers(ctx, userID); err != nil {
		return models.FollowStats{}, fmt.Errorf("count followers: %w", err)
	}
	if st.Followed, err = repo.CountFollowed(ctx, userID); err != nil {
		return models.FollowStats{}, fmt.Errorf("count followed: %w", err)
	}
	return st, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, follower, followed uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	ok, err := s.repomanager.Followers(s.db).IsFollowing(ctx, follower, followed)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return ok, nil
}
