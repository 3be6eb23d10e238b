// Package services contains server-side business logic. This file implements
// SaveService: creation, retrieval and deletion of saves plus the exclusive
// edit-lock protocol that guards their mutable fields.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/server/authz"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/saves"
	"github.com/google/uuid"
)

// CreateSaveInput carries the fields of a save-creation request. Name and
// ToolID are required; Data, when present, must be well-formed JSON.
type CreateSaveInput struct {
	Name        string
	Description string
	Data        json.RawMessage
	ToolID      string
}

// SaveService arbitrates all access to saves. Authorization is decided by
// the pure authz gate; lock-state decisions are delegated to the document
// store's conditional updates, so concurrent requests against the same save
// are serialized by the database, not by this process.
type SaveService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewSaveService constructs a SaveService using the repository manager.
func NewSaveService(db *sql.DB, m repomanager.RepositoryManager) *SaveService {
	return &SaveService{db: db, repomanager: m}
}

// List returns every save. Requires the platform-wide view-all privilege.
func (s *SaveService) List(ctx context.Context, actor authz.Actor) ([]*models.Save, error) {
	if !actor.Has(authz.PrivilegeViewAll) {
		return nil, common.ErrForbidden
	}
	result, err := s.repomanager.Saves(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing saves: %w", err)
	}
	return result, nil
}

// Create validates the input, checks the referenced tool exists, and inserts
// a new unlocked save owned by the actor.
func (s *SaveService) Create(ctx context.Context, actor authz.Actor, in CreateSaveInput) (*models.Save, error) {
	if !authz.CanPerform(actor, authz.CapabilityCreate, nil, nil) {
		return nil, common.ErrForbidden
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if in.ToolID == "" {
		return nil, fmt.Errorf("%w: tool_id is required", common.ErrValidation)
	}
	if in.Data != nil && !json.Valid(in.Data) {
		return nil, fmt.Errorf("%w: data is not valid JSON", common.ErrValidation)
	}

	if _, err := s.repomanager.Tools(s.db).GetByID(ctx, in.ToolID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("tool %s: %w", in.ToolID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("error checking tool: %w", err)
	}

	save := &models.Save{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Data:        in.Data,
		ToolID:      in.ToolID,
		OwnerID:     actor.ID,
	}

	created, err := s.repomanager.Saves(s.db).Create(ctx, save)
	if err != nil {
		return nil, fmt.Errorf("error creating save: %w", err)
	}
	return created, nil
}

// Get returns a save by id and touches its last_opened timestamp.
func (s *SaveService) Get(ctx context.Context, actor authz.Actor, id string) (*models.Save, error) {
	save, grants, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanPerform(actor, authz.CapabilityView, save, grants) {
		return nil, common.ErrForbidden
	}
	if err := s.repomanager.Saves(s.db).TouchOpened(ctx, id); err != nil {
		return nil, fmt.Errorf("error touching save: %w", err)
	}
	return save, nil
}

// SetLock applies a lock-state change for the actor. Any authenticated user
// may request one; it is the lock state machine that arbitrates. Acquisition
// succeeds when the save is unlocked, already held by the actor, or owned by
// the actor (owner override); release succeeds when the save is unlocked or
// held by the actor. Every other case yields ErrLockConflict. The decision
// and the write are one atomic statement in the document store.
func (s *SaveService) SetLock(ctx context.Context, actor authz.Actor, id string, wantLock bool) error {
	// existence check, so a missing save is not reported as a conflict
	if _, err := s.repomanager.Saves(s.db).GetByID(ctx, id); err != nil {
		return err
	}

	repo := s.repomanager.Saves(s.db)
	if wantLock {
		return repo.Acquire(ctx, id, actor.ID)
	}
	return repo.Release(ctx, id, actor.ID)
}

// Edit applies field changes to a save. The actor must hold the lock; an
// unlocked save rejects edits just like one locked by somebody else. The
// lock state is evaluated before capabilities, so contention always surfaces
// as ErrNotLockHolder.
func (s *SaveService) Edit(ctx context.Context, actor authz.Actor, id string, patch saves.FieldPatch) error {
	if patch.Empty() {
		return fmt.Errorf("%w: no fields to update", common.ErrValidation)
	}
	if patch.Data != nil && !json.Valid(patch.Data) {
		return fmt.Errorf("%w: data is not valid JSON", common.ErrValidation)
	}

	save, grants, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !save.LockedBy(actor.ID) {
		return common.ErrNotLockHolder
	}
	if !authz.CanPerform(actor, authz.CapabilityUpdate, save, grants) {
		return common.ErrForbidden
	}

	return s.repomanager.Saves(s.db).UpdateFields(ctx, id, actor.ID, patch)
}

// Delete removes a save. Owner only, unless the actor holds delete-all.
func (s *SaveService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	save, grants, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanPerform(actor, authz.CapabilityDelete, save, grants) {
		return common.ErrForbidden
	}
	return s.repomanager.Saves(s.db).Delete(ctx, id)
}

// fetch loads a save together with its share grants for authorization.
func (s *SaveService) fetch(ctx context.Context, id string) (*models.Save, []*models.ShareGrant, error) {
	save, err := s.repomanager.Saves(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrNotFound
		}
		return nil, nil, fmt.Errorf("error loading save: %w", err)
	}
	grants, err := s.repomanager.Shares(s.db).ListBySave(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading grants: %w", err)
	}
	return save, grants, nil
}
