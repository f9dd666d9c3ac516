package followers

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/google/uuid"
)

type edgeKey struct {
	follower uuid.UUID
	followed uuid.UUID
	username string
}

// MemoryRepository keeps edges in insertion order behind a mutex and
// enforces the same unique key as the followers table.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	edges  []models.FollowEdge
	keys   map[edgeKey]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{keys: make(map[edgeKey]struct{})}
}

// insert must be called with mu held.
func (r *MemoryRepository) insert(follower, followed uuid.UUID, username string) bool {
	k := edgeKey{follower, followed, username}
	if _, ok := r.keys[k]; ok {
		return false
	}
	r.nextID++
	r.keys[k] = struct{}{}
	r.edges = append(r.edges, models.FollowEdge{
		ID:         r.nextID,
		FollowerID: follower,
		FollowedID: followed,
		Username:   username,
		CreatedAt:  time.Now(),
	})
	return true
}

func (r *MemoryRepository) Follow(ctx context.Context, follower, followed uuid.UUID, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(follower, followed, username), nil
}

func (r *MemoryRepository) Unfollow(ctx context.Context, follower, followed uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.edges[:0]
	removed := false
	for _, e := range r.edges {
		if e.FollowerID == follower && e.FollowedID == followed {
			delete(r.keys, edgeKey{e.FollowerID, e.FollowedID, e.Username})
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	r.edges = kept
	return removed, nil
}

func (r *MemoryRepository) filter(match func(e *models.FollowEdge) bool) []*models.FollowEdge {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.FollowEdge, 0)
	for i := range r.edges {
		if match(&r.edges[i]) {
			e := r.edges[i]
			out = append(out, &e)
		}
	}
	return out
}

func (r *MemoryRepository) Followers(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error) {
	return r.filter(func(e *models.FollowEdge) bool { return e.FollowedID == userID }), nil
}

func (r *MemoryRepository) Followed(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error) {
	return r.filter(func(e *models.FollowEdge) bool { return e.FollowerID == userID }), nil
}

func (r *MemoryRepository) Create(ctx context.Context, edge *models.FollowEdge) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.insert(edge.FollowerID, edge.FollowedID, edge.Username) {
		return false, common.ErrorAlreadyExists
	}
	return true, nil
}

func (r *MemoryRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(e *models.FollowEdge) bool { return e.FollowedID == userID }))), nil
}

func (r *MemoryRepository) CountFollowed(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(e *models.FollowEdge) bool { return e.FollowerID == userID }))), nil
}

func (r *MemoryRepository) IsFollowing(ctx context.Context, follower, followed uuid.UUID) (bool, error) {
	found := r.filter(func(e *models.FollowEdge) bool {
		return e.FollowerID == follower && e.FollowedID == followed
	})
	return len(found) > 0, nil
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.edges = nil
	r.keys = make(map[edgeKey]struct{})
	return nil
}
