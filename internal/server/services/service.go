// Package services is the caller-facing surface over the repositories:
// accounts, the follow graph and profile pictures.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/civicfollow/internal/common"
)

// withTimeout bounds one storage call. A non-positive d leaves ctx's own
// deadline (if any) in charge.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// nilIfNotFound turns a repository not-found into an absent result.
func nilIfNotFound[T any](v *T, err error) (*T, error) {
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
