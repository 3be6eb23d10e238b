package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/server/authz"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ToolService manages the registry of tools that saves are created against.
type ToolService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewToolService(db *sql.DB, m repomanager.RepositoryManager) *ToolService {
	return &ToolService{db: db, repomanager: m}
}

// List returns every registered tool. Open to all authenticated users.
func (s *ToolService) List(ctx context.Context) ([]*models.Tool, error) {
	result, err := s.repomanager.Tools(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing tools: %w", err)
	}
	return result, nil
}

// Create registers a tool. Requires the manage-tools privilege.
func (s *ToolService) Create(ctx context.Context, actor authz.Actor, name string) (*models.Tool, error) {
	if !actor.Has(authz.PrivilegeManageTools) {
		return nil, common.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidation)
	}

	tool := &models.Tool{ID: uuid.NewString(), Name: name}
	created, err := s.repomanager.Tools(s.db).Create(ctx, tool)
	if err != nil {
		return nil, fmt.Errorf("error creating tool: %w", err)
	}
	return created, nil
}
