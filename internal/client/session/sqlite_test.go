package session

import (
	"context"
	"testing"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, repo, err := InitDatabase(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repo
}

func TestSetGetDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, KeyToken, []byte("tok-1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := repo.Get(ctx, KeyToken)
	if err != nil || string(got) != "tok-1" {
		t.Fatalf("get: got (%q, %v)", got, err)
	}

	// overwrite
	if err := repo.Set(ctx, KeyToken, []byte("tok-2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = repo.Get(ctx, KeyToken)
	if err != nil || string(got) != "tok-2" {
		t.Fatalf("get after overwrite: got (%q, %v)", got, err)
	}

	if err := repo.Delete(ctx, KeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = repo.Get(ctx, KeyToken)
	if err != nil || got != nil {
		t.Fatalf("get after delete: got (%q, %v)", got, err)
	}
}

func TestGetMissingKey(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Get(context.Background(), "nothing")
	if err != nil || got != nil {
		t.Fatalf("missing key must yield (nil, nil), got (%q, %v)", got, err)
	}
}

func TestClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, KeyToken, []byte("t")); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := repo.Set(ctx, KeyUserID, []byte("u")); err != nil {
		t.Fatalf("set user: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, key := range []string{KeyToken, KeyUserID} {
		if got, err := repo.Get(ctx, key); err != nil || got != nil {
			t.Fatalf("key %s survived clear: (%q, %v)", key, got, err)
		}
	}
}
