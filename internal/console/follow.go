package console

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/google/uuid"
)

// Follow makes the logged-in account follow username. The edge carries the
// follower's current username.
func (a *App) Follow(ctx context.Context, username string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	target, err := a.resolve(ctx, username)
	if err != nil {
		return err
	}

	created, err := a.follows.FollowUser(ctx, a.me.ID, target.ID, a.me.Username)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(a.out, "Now following %s\n", target.Username)
	} else {
		fmt.Fprintf(a.out, "Already following %s\n", target.Username)
	}
	return nil
}

func (a *App) Unfollow(ctx context.Context, username string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	target, err := a.resolve(ctx, username)
	if err != nil {
		return err
	}

	removed, err := a.follows.UnfollowUser(ctx, a.me.ID, target.ID)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(a.out, "Unfollowed %s\n", target.Username)
	} else {
		fmt.Fprintf(a.out, "Was not following %s\n", target.Username)
	}
	return nil
}

// Followers lists who follows username (the logged-in account if empty).
func (a *App) Followers(ctx context.Context, username string) error {
	acc, err := a.resolve(ctx, username)
	if err != nil {
		return err
	}
	edges, err := a.follows.GetFollowers(ctx, acc.ID)
	if err != nil {
		return err
	}
	// The edge already carries the follower's username snapshot.
	a.printEdges(fmt.Sprintf("%s has no followers", acc.Username), edges, func(e *models.FollowEdge) (string, uuid.UUID) {
		return e.Username, e.FollowerID
	})
	return nil
}

// Following lists whom username follows.
func (a *App) Following(ctx context.Context, username string) error {
	acc, err := a.resolve(ctx, username)
	if err != nil {
		return err
	}
	edges, err := a.follows.GetFollowed(ctx, acc.ID)
	if err != nil {
		return err
	}
	a.printEdges(fmt.Sprintf("%s follows nobody", acc.Username), edges, func(e *models.FollowEdge) (string, uuid.UUID) {
		return a.nameOf(ctx, e.FollowedID), e.FollowedID
	})
	return nil
}

func (a *App) Stats(ctx context.Context, username string) error {
	acc, err := a.resolve(ctx, username)
	if err != nil {
		return err
	}
	st, err := a.follows.Stats(ctx, acc.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %d followers, follows %d\n", acc.Username, st.Followers, st.Followed)
	return nil
}

// printEdges prints one line per edge: the name and id of the account on
// the other end and when the edge was created.
func (a *App) printEdges(empty string, edges []*models.FollowEdge, other func(*models.FollowEdge) (string, uuid.UUID)) {
	if len(edges) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	for _, e := range edges {
		name, id := other(e)
		fmt.Fprintf(a.out, "%-20s %s  since %s\n", name, id, e.CreatedAt.Format("2006-01-02"))
	}
}

func (a *App) nameOf(ctx context.Context, id uuid.UUID) string {
	acc, err := a.accounts.Find(ctx, id)
	if err != nil || acc == nil {
		return "(unknown)"
	}
	return acc.Username
}
