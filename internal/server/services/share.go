package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/dbx"
	"github.com/dmitrijs2005/savekeeper/internal/server/authz"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ShareService manages the share registry: granting, accepting and revoking
// the grants that bind users to saves.
type ShareService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewShareService(db *sql.DB, m repomanager.RepositoryManager) *ShareService {
	return &ShareService{db: db, repomanager: m}
}

// Grant creates a pending grant binding userID to the save. Owner only.
// Granting to the owner or to a user who already has a grant is a
// validation error. The duplicate check and the insert run in one
// transaction so two concurrent grants cannot both pass the check.
func (s *ShareService) Grant(ctx context.Context, actor authz.Actor, saveID, userID string, permission int) (*models.ShareGrant, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	if permission != models.PermissionRead && permission != models.PermissionReadWrite {
		return nil, fmt.Errorf("%w: unknown permission level %d", common.ErrValidation, permission)
	}

	save, err := s.repomanager.Saves(s.db).GetByID(ctx, saveID)
	if err != nil {
		return nil, err
	}
	if !authz.CanPerform(actor, authz.CapabilityShare, save, nil) {
		return nil, common.ErrForbidden
	}
	if userID == save.OwnerID {
		return nil, fmt.Errorf("%w: cannot share a save with its owner", common.ErrValidation)
	}

	var created *models.ShareGrant
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		shareRepo := s.repomanager.Shares(tx)
		if _, err := shareRepo.GetBySaveAndUser(ctx, saveID, userID); err == nil {
			return fmt.Errorf("%w: save is already shared with this user", common.ErrValidation)
		} else if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("error checking existing grant: %w", err)
		}

		grant := &models.ShareGrant{
			ID:         uuid.NewString(),
			SaveID:     saveID,
			UserID:     userID,
			Permission: permission,
		}
		var createErr error
		created, createErr = shareRepo.Create(ctx, grant)
		if createErr != nil {
			return fmt.Errorf("error creating grant: %w", createErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return created, nil
}

// Accept confirms a pending grant. Only the invited user may accept;
// accepting an already-accepted grant is a no-op success.
func (s *ShareService) Accept(ctx context.Context, actor authz.Actor, grantID string) error {
	shareRepo := s.repomanager.Shares(s.db)

	grant, err := shareRepo.GetByID(ctx, grantID)
	if err != nil {
		return err
	}
	if grant.UserID != actor.ID {
		return common.ErrForbidden
	}
	return shareRepo.MarkAccepted(ctx, grantID)
}

// Revoke removes a grant. The save's owner may revoke any grant; the invited
// user may revoke their own.
func (s *ShareService) Revoke(ctx context.Context, actor authz.Actor, grantID string) error {
	shareRepo := s.repomanager.Shares(s.db)

	grant, err := shareRepo.GetByID(ctx, grantID)
	if err != nil {
		return err
	}

	save, err := s.repomanager.Saves(s.db).GetByID(ctx, grant.SaveID)
	if err != nil {
		return err
	}
	if grant.UserID != actor.ID && !authz.CanPerform(actor, authz.CapabilityShare, save, nil) {
		return common.ErrForbidden
	}
	return shareRepo.Delete(ctx, grantID)
}

// ListForSave returns every grant on the save. Owner only.
func (s *ShareService) ListForSave(ctx context.Context, actor authz.Actor, saveID string) ([]*models.ShareGrant, error) {
	save, err := s.repomanager.Saves(s.db).GetByID(ctx, saveID)
	if err != nil {
		return nil, err
	}
	if !authz.CanPerform(actor, authz.CapabilityShare, save, nil) {
		return nil, common.ErrForbidden
	}
	grants, err := s.repomanager.Shares(s.db).ListBySave(ctx, saveID)
	if err != nil {
		return nil, fmt.Errorf("error listing grants: %w", err)
	}
	return grants, nil
}
