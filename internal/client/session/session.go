// Package session persists the CLI's local state, most importantly the
// access token, in a small key/value table inside an embedded sqlite file.
package session

import "context"

// Well-known session keys.
const (
	KeyToken  = "token"
	KeyUserID = "user_id"
)

// Repository is a key/value store for session state.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
