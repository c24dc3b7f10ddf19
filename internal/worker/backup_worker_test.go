package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"famledger/internal/amqp"
	"famledger/internal/core"
	"famledger/internal/ledger"
	applog "famledger/internal/log"
	"famledger/internal/medium/memory"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestWorker(t *testing.T, keep int) (*BackupWorker, *memory.Store, *stepClock) {
	t.Helper()
	m := memory.New()
	open := func(ctx context.Context) (Exporter, error) {
		return ledger.Open(ctx, m, ledger.WithLogger(applog.Discard()))
	}
	w := NewBackupWorker(open, filepath.Join(t.TempDir(), "backups"), keep, applog.Discard())
	clock := &stepClock{t: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	w.now = clock.now
	return w, m, clock
}

func TestBackupWritesSnapshotOfCurrentMedium(t *testing.T) {
	ctx := context.Background()
	w, m, _ := newTestWorker(t, 5)

	// another process writes to the medium
	writer, err := ledger.Open(ctx, m, ledger.WithLogger(applog.Discard()))
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	if _, err := writer.SaveMember(ctx, core.Member{Name: "Achieng"}); err != nil {
		t.Fatalf("save member: %v", err)
	}

	path, err := w.Backup(ctx)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if !strings.HasSuffix(path, "famledger-20250615T120001.000000000Z.json") {
		t.Errorf("unexpected backup name %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !strings.Contains(string(data), `"MEMB-001"`) {
		t.Errorf("backup misses the member written by the other process: %s", data)
	}

	restored, err := ledger.Open(ctx, memory.New(), ledger.WithLogger(applog.Discard()))
	if err != nil {
		t.Fatalf("open restore target: %v", err)
	}
	if ok, err := restored.ImportSnapshot(ctx, data); !ok || err != nil {
		t.Fatalf("backup is not importable: ok=%v err=%v", ok, err)
	}
	if got := restored.ListActiveMembers(); len(got) != 1 {
		t.Errorf("restored members = %+v", got)
	}
}

func TestBackupKeepsNewest(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newTestWorker(t, 3)

	var paths []string
	for i := 0; i < 5; i++ {
		path, err := w.Backup(ctx)
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		paths = append(paths, filepath.Base(path))
	}

	got, err := w.Backups()
	if err != nil {
		t.Fatalf("Backups() error = %v", err)
	}
	want := paths[2:]
	if len(got) != len(want) {
		t.Fatalf("Backups() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Backups()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBackupIgnoresForeignFiles(t *testing.T) {
	w, _, _ := newTestWorker(t, 1)
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, "notes.txt"), []byte("keep me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := w.Backup(context.Background()); err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(w.dir, "notes.txt")); err != nil {
		t.Errorf("foreign file removed: %v", err)
	}
}

func TestHandleChangeMessageSkipsCoveredChanges(t *testing.T) {
	ctx := context.Background()
	w, _, clock := newTestWorker(t, 10)

	first := &amqp.LedgerChangeMessage{Collection: "members", Operation: "upsert", Timestamp: clock.t}
	if err := w.HandleChangeMessage(ctx, first); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}
	// emitted before the backup above was taken
	burst := &amqp.LedgerChangeMessage{Collection: "departedMembers", Operation: "depart", Timestamp: clock.t.Add(-time.Millisecond)}
	if err := w.HandleChangeMessage(ctx, burst); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}
	later := &amqp.LedgerChangeMessage{Collection: "savings", Operation: "create", Timestamp: clock.t.Add(time.Millisecond)}
	if err := w.HandleChangeMessage(ctx, later); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}

	got, err := w.Backups()
	if err != nil {
		t.Fatalf("Backups() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 backups, got %v", got)
	}
}

func TestHandleChangeMessageOpenFailure(t *testing.T) {
	boom := errors.New("medium unavailable")
	w := NewBackupWorker(func(context.Context) (Exporter, error) { return nil, boom }, t.TempDir(), 3, applog.Discard())

	err := w.HandleChangeMessage(context.Background(), amqp.NewLedgerChangeMessage("members", "upsert"))
	if !errors.Is(err, boom) {
		t.Fatalf("HandleChangeMessage() error = %v, want %v", err, boom)
	}
}
