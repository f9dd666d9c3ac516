package followers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)

func TestMemory_FollowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	alice, bob := uuid.New(), uuid.New()

	ok, err := r.Follow(ctx, alice, bob, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Follow(ctx, alice, bob, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := r.Followers(ctx, bob)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, alice, got[0].FollowerID)
	assert.Equal(t, "alice", got[0].Username)

	got, err = r.Followed(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bob, got[0].FollowedID)

	got, err = r.Followers(ctx, alice)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemory_UnfollowRemovesEverySnapshot(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	_, _ = r.Follow(ctx, alice, bob, "alice")
	_, _ = r.Follow(ctx, alice, bob, "alice-renamed")
	_, _ = r.Follow(ctx, carol, bob, "carol")

	ok, err := r.Unfollow(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Unfollow(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, ok)

	following, _ := r.IsFollowing(ctx, alice, bob)
	assert.False(t, following)

	n, _ := r.CountFollowers(ctx, bob)
	assert.Equal(t, int64(1), n)

	ok, _ = r.Follow(ctx, alice, bob, "alice")
	assert.True(t, ok, "edge can be recreated after unfollow")
}

func TestMemory_SelfFollowAllowed(t *testing.T) {
	r := NewMemoryRepository()
	me := uuid.New()

	ok, err := r.Follow(context.Background(), me, me, "me")
	require.NoError(t, err)
	assert.True(t, ok)

	n, _ := r.CountFollowed(context.Background(), me)
	assert.Equal(t, int64(1), n)
}

func TestMemory_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	edge := &models.FollowEdge{FollowerID: uuid.New(), FollowedID: uuid.New(), Username: "x"}

	ok, err := r.Create(ctx, edge)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Create(ctx, edge)
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	require.NoError(t, r.DeleteAll(ctx))
	ok, err = r.Create(ctx, edge)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_ConcurrentFollowSingleWinner(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	alice, bob := uuid.New(), uuid.New()

	const n = 64
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := r.Follow(ctx, alice, bob, "alice")
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	got, _ := r.Followers(ctx, bob)
	assert.Len(t, got, 1)
}

func TestMemory_ConcurrentFollowUnfollowKeepsKeysConsistent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	a, b := uuid.New(), uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _, _ = r.Follow(ctx, a, b, "a") }()
		go func() { defer wg.Done(); _, _ = r.Unfollow(ctx, a, b) }()
	}
	wg.Wait()

	following, _ := r.IsFollowing(ctx, a, b)
	ok, _ := r.Follow(ctx, a, b, "a")
	assert.Equal(t, !following, ok)
}
