// Package common defines shared constants and sentinel errors used across
// client and server layers of savekeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Input errors, including mixed lock+edit requests.
	ErrValidation = errors.New("validation error")

	// Lock protocol errors. ErrLockConflict rejects a lock-state change made
	// while another user holds the lock; ErrNotLockHolder rejects an edit by
	// anyone who does not currently hold the lock.
	ErrLockConflict  = errors.New("lock held by another user")
	ErrNotLockHolder = errors.New("lock not held by acting user")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
