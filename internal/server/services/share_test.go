package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/server/authz"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
)

func newShareEnv(t *testing.T) (*ShareService, *fakeSharesRepo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	savesRepo := newFakeSavesRepo(&models.Save{ID: "s1", Name: "run 1", ToolID: "t1", OwnerID: owner.ID})
	sharesRepo := newFakeSharesRepo(
		&models.ShareGrant{ID: "g1", SaveID: "s1", UserID: editor.ID, Permission: models.PermissionReadWrite, Accepted: false},
	)
	rm := &fakeRepoManager{s: savesRepo, g: sharesRepo}
	return NewShareService(db, rm), sharesRepo, mock
}

func TestGrant_OwnerCreatesPendingGrant(t *testing.T) {
	svc, repo, mock := newShareEnv(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	grant, err := svc.Grant(context.Background(), owner, "s1", reader.ID, models.PermissionRead)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if grant.Accepted {
		t.Fatal("new grant must start unaccepted")
	}
	if grant.Permission != models.PermissionRead {
		t.Fatalf("unexpected permission: %d", grant.Permission)
	}
	if _, ok := repo.grants[grant.ID]; !ok {
		t.Fatal("grant not persisted")
	}
	// the duplicate check and the insert share one transaction
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGrant_Rejections(t *testing.T) {
	svc, _, mock := newShareEnv(t)
	ctx := context.Background()

	// only the duplicate check reaches the transaction, which rolls back
	mock.ExpectBegin()
	mock.ExpectRollback()

	if _, err := svc.Grant(ctx, editor, "s1", reader.ID, models.PermissionRead); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("non-owner grant: want ErrForbidden, got %v", err)
	}
	if _, err := svc.Grant(ctx, owner, "s1", owner.ID, models.PermissionRead); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("self-share: want ErrValidation, got %v", err)
	}
	if _, err := svc.Grant(ctx, owner, "s1", editor.ID, models.PermissionRead); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("duplicate grant: want ErrValidation, got %v", err)
	}
	if _, err := svc.Grant(ctx, owner, "s1", reader.ID, 9); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("bad permission: want ErrValidation, got %v", err)
	}
	if _, err := svc.Grant(ctx, owner, "missing", reader.ID, models.PermissionRead); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("missing save: want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccept_InvitedUserOnly(t *testing.T) {
	svc, repo, _ := newShareEnv(t)
	ctx := context.Background()

	if err := svc.Accept(ctx, reader, "g1"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("accept by other user: want ErrForbidden, got %v", err)
	}
	if err := svc.Accept(ctx, editor, "g1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !repo.grants["g1"].Accepted {
		t.Fatal("grant not marked accepted")
	}

	// repeating the acceptance changes nothing and still succeeds
	if err := svc.Accept(ctx, editor, "g1"); err != nil {
		t.Fatalf("repeated accept: %v", err)
	}
	if !repo.grants["g1"].Accepted {
		t.Fatal("acceptance must not reverse")
	}
}

func TestRevoke_OwnerAndInvitedUser(t *testing.T) {
	ctx := context.Background()

	svc, repo, _ := newShareEnv(t)
	if err := svc.Revoke(ctx, owner, "g1"); err != nil {
		t.Fatalf("owner revoke: %v", err)
	}
	if _, ok := repo.grants["g1"]; ok {
		t.Fatal("grant not deleted")
	}

	svc, repo, _ = newShareEnv(t)
	if err := svc.Revoke(ctx, editor, "g1"); err != nil {
		t.Fatalf("invited user revoke: %v", err)
	}
	if _, ok := repo.grants["g1"]; ok {
		t.Fatal("grant not deleted")
	}

	svc, _, _ = newShareEnv(t)
	if err := svc.Revoke(ctx, reader, "g1"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("third-party revoke: want ErrForbidden, got %v", err)
	}
	if err := svc.Revoke(ctx, owner, "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("missing grant: want ErrNotFound, got %v", err)
	}
}

func TestListForSave_OwnerOnly(t *testing.T) {
	svc, _, _ := newShareEnv(t)
	ctx := context.Background()

	grants, err := svc.ListForSave(ctx, owner, "s1")
	if err != nil || len(grants) != 1 {
		t.Fatalf("owner list: got (%d, %v)", len(grants), err)
	}
	if _, err := svc.ListForSave(ctx, editor, "s1"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("grantee list: want ErrForbidden, got %v", err)
	}
}

func TestToolService_Flows(t *testing.T) {
	rm := &fakeRepoManager{t: newFakeToolsRepo(&models.Tool{ID: "t1", Name: "canvas"})}
	svc := NewToolService(nil, rm)
	ctx := context.Background()

	tools, err := svc.List(ctx)
	if err != nil || len(tools) != 1 {
		t.Fatalf("list: got (%d, %v)", len(tools), err)
	}

	admin := authz.Actor{ID: "root", Privileges: []string{authz.PrivilegeManageTools}}
	tool, err := svc.Create(ctx, admin, "sequencer")
	if err != nil || tool.Name != "sequencer" {
		t.Fatalf("create: got (%+v, %v)", tool, err)
	}

	if _, err := svc.Create(ctx, owner, "x"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("create without privilege: want ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, ""); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("create without name: want ErrValidation, got %v", err)
	}
}
