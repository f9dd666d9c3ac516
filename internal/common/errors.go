// Package common defines shared constants and sentinel errors used across
// the civicfollow packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrorAlreadyExists      = errors.New("already exists")
	ErrorStorageUnavailable = errors.New("db error")
	ErrorIncorrectRecord    = errors.New("incorrect record")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInvalidInput = errors.New("invalid input")

	// Access token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
