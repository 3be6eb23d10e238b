package shares

import (
	"context"

	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// Repository is the share registry contract: grants binding users to saves
// at a permission level, pending acceptance.
type Repository interface {
	Create(ctx context.Context, grant *models.ShareGrant) (*models.ShareGrant, error)
	GetByID(ctx context.Context, id string) (*models.ShareGrant, error)
	GetBySaveAndUser(ctx context.Context, saveID, userID string) (*models.ShareGrant, error)
	ListBySave(ctx context.Context, saveID string) ([]*models.ShareGrant, error)

	// MarkAccepted flips accepted to true. Flipping an already-accepted
	// grant is a no-op success; the transition never reverses.
	MarkAccepted(ctx context.Context, id string) error

	Delete(ctx context.Context, id string) error
}
