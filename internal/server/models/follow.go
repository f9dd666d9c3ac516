package models

import (
	"time"

	"github.com/google/uuid"
)

// FollowEdge is a directed "follower follows followed" relation.
// Username is the follower's username when the edge was created; it is a
// display snapshot, not a key into users.
type FollowEdge struct {
	ID         int64     `json:"id"`
	FollowerID uuid.UUID `json:"follower_id"`
	FollowedID uuid.UUID `json:"followed_id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowStats are the edge counts on both sides of an account.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Followed  int64 `json:"followed"`
}
