package snapshots

import (
	"context"

	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// Repository is the persistence contract for snapshot metadata. The archived
// payloads themselves live in object storage.
type Repository interface {
	Create(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error)
	GetByID(ctx context.Context, id string) (*models.Snapshot, error)
	ListBySave(ctx context.Context, saveID string) ([]*models.Snapshot, error)
}
