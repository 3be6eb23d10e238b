package saves

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// FieldPatch carries the optional field edits of a save. Nil fields are left
// unchanged.
type FieldPatch struct {
	Name        *string
	Description *string
	Data        json.RawMessage
}

// Empty reports whether the patch changes nothing.
func (p FieldPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Data == nil
}

// Repository is the document store contract for saves. Acquire, Release and
// UpdateFields are single conditional UPDATE statements: the lock check and
// the write happen atomically in the database, so two concurrent operations
// can never both observe an unlocked row and both succeed.
type Repository interface {
	Create(ctx context.Context, save *models.Save) (*models.Save, error)
	GetByID(ctx context.Context, id string) (*models.Save, error)
	List(ctx context.Context) ([]*models.Save, error)

	// TouchOpened advances last_opened. Advisory read tracking only.
	TouchOpened(ctx context.Context, id string) error

	// Acquire takes the lock for userID. Permitted when the save is
	// unlocked, already held by userID, or owned by userID (owner
	// override). Returns common.ErrLockConflict otherwise.
	Acquire(ctx context.Context, id, userID string) error

	// Release clears the lock. Permitted when the save is unlocked (no-op)
	// or held by userID. Returns common.ErrLockConflict otherwise.
	Release(ctx context.Context, id, userID string) error

	// UpdateFields applies patch if and only if userID currently holds the
	// lock. Returns common.ErrNotLockHolder otherwise.
	UpdateFields(ctx context.Context, id, userID string, patch FieldPatch) error

	Delete(ctx context.Context, id string) error
}
