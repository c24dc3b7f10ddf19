package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"famledger/internal/medium"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.Load(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	buf := []byte(`[1,2]`)
	if err := s.Save(ctx, "k", buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	buf[0] = 'x' // caller mutations must not leak into the store

	got, ok, err := s.Load(ctx, "k")
	if err != nil || !ok || string(got) != "[1,2]" {
		t.Fatalf("unexpected load: %q ok=%v err=%v", got, ok, err)
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := New()
	_ = s.Close()
	if err := s.Save(context.Background(), "k", nil); !errors.Is(err, medium.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No files -> empty store
	s, err := NewFromFiles(filepath.Join(dir, "nope"))
	if err != nil || len(s.Keys()) != 0 {
		t.Fatalf("expected empty store, got %v (err=%v)", s.Keys(), err)
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("familyManagement_members.json", `[{"id":"MEMB-001"}]`)
	mustWrite("notes.txt", "ignored")

	s, err = NewFromFiles(dir)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	data, ok, _ := s.Load(context.Background(), "familyManagement_members")
	if !ok || string(data) != `[{"id":"MEMB-001"}]` {
		t.Fatalf("unexpected seeded data %q ok=%v", data, ok)
	}
	if len(s.Keys()) != 1 {
		t.Fatalf("expected only json seeds, got %v", s.Keys())
	}
}
