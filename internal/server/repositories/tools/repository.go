package tools

import (
	"context"

	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

// Repository is the persistence contract for the tool registry.
type Repository interface {
	Create(ctx context.Context, tool *models.Tool) (*models.Tool, error)
	GetByID(ctx context.Context, id string) (*models.Tool, error)
	List(ctx context.Context) ([]*models.Tool, error)
}
