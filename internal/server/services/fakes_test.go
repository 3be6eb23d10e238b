package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/dbx"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
	savesrepo "github.com/dmitrijs2005/savekeeper/internal/server/repositories/saves"
	sharesrepo "github.com/dmitrijs2005/savekeeper/internal/server/repositories/shares"
	snapshotsrepo "github.com/dmitrijs2005/savekeeper/internal/server/repositories/snapshots"
	toolsrepo "github.com/dmitrijs2005/savekeeper/internal/server/repositories/tools"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeSavesRepo is an in-memory stand-in with the same conditional-update
// semantics as the SQL implementation: each lock operation checks and writes
// under one mutex hold, so concurrent calls serialize the same way rows do
// in the database.
type fakeSavesRepo struct {
	mu    sync.Mutex
	saves map[string]*models.Save

	listErr   error
	createErr error
	getErr    error
}

func newFakeSavesRepo(saves ...*models.Save) *fakeSavesRepo {
	m := make(map[string]*models.Save)
	for _, s := range saves {
		m[s.ID] = s
	}
	return &fakeSavesRepo{saves: m}
}

func (f *fakeSavesRepo) Create(ctx context.Context, save *models.Save) (*models.Save, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves[save.ID] = save
	return save, nil
}

func (f *fakeSavesRepo) GetByID(ctx context.Context, id string) (*models.Save, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.saves[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSavesRepo) List(ctx context.Context) ([]*models.Save, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Save
	for _, s := range f.saves {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeSavesRepo) TouchOpened(ctx context.Context, id string) error { return nil }

func (f *fakeSavesRepo) Acquire(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.saves[id]
	if !ok {
		return common.ErrNotFound
	}
	if s.LockedByID == nil || *s.LockedByID == userID || s.OwnerID == userID {
		holder := userID
		s.LockedByID = &holder
		return nil
	}
	return common.ErrLockConflict
}

func (f *fakeSavesRepo) Release(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.saves[id]
	if !ok {
		return common.ErrNotFound
	}
	if s.LockedByID == nil || *s.LockedByID == userID {
		s.LockedByID = nil
		return nil
	}
	return common.ErrLockConflict
}

func (f *fakeSavesRepo) UpdateFields(ctx context.Context, id, userID string, patch savesrepo.FieldPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.saves[id]
	if !ok {
		return common.ErrNotFound
	}
	if s.LockedByID == nil || *s.LockedByID != userID {
		return common.ErrNotLockHolder
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	if patch.Data != nil {
		s.Data = patch.Data
	}
	return nil
}

func (f *fakeSavesRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.saves[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.saves, id)
	return nil
}

type fakeSharesRepo struct {
	mu     sync.Mutex
	grants map[string]*models.ShareGrant

	listErr error
}

func newFakeSharesRepo(grants ...*models.ShareGrant) *fakeSharesRepo {
	m := make(map[string]*models.ShareGrant)
	for _, g := range grants {
		m[g.ID] = g
	}
	return &fakeSharesRepo{grants: m}
}

func (f *fakeSharesRepo) Create(ctx context.Context, grant *models.ShareGrant) (*models.ShareGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants[grant.ID] = grant
	return grant, nil
}

func (f *fakeSharesRepo) GetByID(ctx context.Context, id string) (*models.ShareGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.grants[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeSharesRepo) GetBySaveAndUser(ctx context.Context, saveID, userID string) (*models.ShareGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.grants {
		if g.SaveID == saveID && g.UserID == userID {
			copied := *g
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeSharesRepo) ListBySave(ctx context.Context, saveID string) ([]*models.ShareGrant, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ShareGrant
	for _, g := range f.grants {
		if g.SaveID == saveID {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSharesRepo) MarkAccepted(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.grants[id]
	if !ok {
		return common.ErrNotFound
	}
	g.Accepted = true
	return nil
}

func (f *fakeSharesRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.grants[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.grants, id)
	return nil
}

type fakeToolsRepo struct {
	tools map[string]*models.Tool

	createErr error
}

func newFakeToolsRepo(tools ...*models.Tool) *fakeToolsRepo {
	m := make(map[string]*models.Tool)
	for _, tl := range tools {
		m[tl.ID] = tl
	}
	return &fakeToolsRepo{tools: m}
}

func (f *fakeToolsRepo) Create(ctx context.Context, tool *models.Tool) (*models.Tool, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.tools[tool.ID] = tool
	return tool, nil
}

func (f *fakeToolsRepo) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	tl, ok := f.tools[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return tl, nil
}

func (f *fakeToolsRepo) List(ctx context.Context) ([]*models.Tool, error) {
	var out []*models.Tool
	for _, tl := range f.tools {
		out = append(out, tl)
	}
	return out, nil
}

type fakeSnapshotsRepo struct {
	mu        sync.Mutex
	snapshots map[string]*models.Snapshot

	createErr error
}

func newFakeSnapshotsRepo(snapshots ...*models.Snapshot) *fakeSnapshotsRepo {
	m := make(map[string]*models.Snapshot)
	for _, sn := range snapshots {
		m[sn.ID] = sn
	}
	return &fakeSnapshotsRepo{snapshots: m}
}

func (f *fakeSnapshotsRepo) Create(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[snapshot.ID] = snapshot
	return snapshot, nil
}

func (f *fakeSnapshotsRepo) GetByID(ctx context.Context, id string) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sn, ok := f.snapshots[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return sn, nil
}

func (f *fakeSnapshotsRepo) ListBySave(ctx context.Context, saveID string) ([]*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Snapshot
	for _, sn := range f.snapshots {
		if sn.SaveID == saveID {
			out = append(out, sn)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	s  *fakeSavesRepo
	g  *fakeSharesRepo
	t  *fakeToolsRepo
	sn *fakeSnapshotsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Saves(db dbx.DBTX) savesrepo.Repository       { return m.s }
func (m *fakeRepoManager) Shares(db dbx.DBTX) sharesrepo.Repository     { return m.g }
func (m *fakeRepoManager) Tools(db dbx.DBTX) toolsrepo.Repository       { return m.t }
func (m *fakeRepoManager) Snapshots(db dbx.DBTX) snapshotsrepo.Repository {
	return m.sn
}
