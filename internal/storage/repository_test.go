package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"famledger/internal/medium"
)

func TestSQLiteRepositorySaveLoad(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "famledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	if _, ok, err := repo.Load(ctx, "familyManagement_members"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := repo.Save(ctx, "familyManagement_members", []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, "familyManagement_members", []byte(`[{"id":"MEMB-001"}]`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Save(ctx, "familyManagement_savingsCounter", []byte(`4`)); err != nil {
		t.Fatalf("save counter: %v", err)
	}

	data, ok, err := repo.Load(ctx, "familyManagement_members")
	if err != nil || !ok || string(data) != `[{"id":"MEMB-001"}]` {
		t.Fatalf("unexpected load %q ok=%v err=%v", data, ok, err)
	}

	keys, err := repo.Keys(ctx)
	if err != nil || len(keys) != 2 || keys[0] != "familyManagement_members" {
		t.Fatalf("unexpected keys %v (err=%v)", keys, err)
	}
}

func TestSQLiteRepositoryReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "famledger.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	data, ok, err := repo.Load(ctx, "k")
	if err != nil || !ok || string(data) != "v" {
		t.Fatalf("unexpected load after reopen %q ok=%v err=%v", data, ok, err)
	}
}

func TestSQLiteRepositoryClosed(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "famledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	if _, _, err := repo.Load(ctx, "k"); !errors.Is(err, medium.ErrClosed) {
		t.Errorf("Load after Close error = %v, want %v", err, medium.ErrClosed)
	}
	if err := repo.Save(ctx, "k", []byte("v")); !errors.Is(err, medium.ErrClosed) {
		t.Errorf("Save after Close error = %v, want %v", err, medium.ErrClosed)
	}
	if _, err := repo.Keys(ctx); !errors.Is(err, medium.ErrClosed) {
		t.Errorf("Keys after Close error = %v, want %v", err, medium.ErrClosed)
	}
}
