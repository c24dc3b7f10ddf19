// Package worker holds the handlers driven by ledger change events.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"famledger/internal/amqp"
	applog "famledger/internal/log"
)

const (
	backupPrefix = "famledger-"
	backupSuffix = ".json"
	// fixed width so names sort chronologically
	backupLayout = "20060102T150405.000000000Z"
)

// Exporter produces a full ledger snapshot.
type Exporter interface {
	ExportSnapshot() ([]byte, error)
}

// OpenFunc returns a freshly loaded ledger.
type OpenFunc func(ctx context.Context) (Exporter, error)

// BackupWorker writes a snapshot file for every ledger change it is told
// about and keeps only the newest ones.
type BackupWorker struct {
	open   OpenFunc
	dir    string
	keep   int
	logger *applog.Logger
	now    func() time.Time

	mu         sync.Mutex
	lastBackup time.Time
}

func NewBackupWorker(open OpenFunc, dir string, keep int, logger *applog.Logger) *BackupWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if keep < 1 {
		keep = 1
	}
	return &BackupWorker{
		open:   open,
		dir:    dir,
		keep:   keep,
		logger: logger.WithComponent(applog.ComponentWorker),
		now:    time.Now,
	}
}

// HandleChangeMessage backs the ledger up unless a snapshot taken after the
// change was already written.
func (w *BackupWorker) HandleChangeMessage(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	w.mu.Lock()
	covered := !w.lastBackup.IsZero() && !msg.Timestamp.After(w.lastBackup)
	w.mu.Unlock()
	if covered {
		w.logger.DebugContext(ctx, "Change already covered by a backup",
			applog.FieldCollection, msg.Collection,
			applog.FieldOperation, msg.Operation)
		return nil
	}

	path, err := w.Backup(ctx)
	if err != nil {
		return err
	}
	w.logger.InfoContext(ctx, "Ledger backed up after change",
		applog.FieldCollection, msg.Collection,
		applog.FieldOperation, msg.Operation,
		applog.FieldPath, path)
	return nil
}

// Backup reopens the ledger, writes a snapshot file and prunes old ones.
// It returns the path of the new file.
func (w *BackupWorker) Backup(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	takenAt := w.now().UTC()
	ledger, err := w.open(ctx)
	if err != nil {
		return "", fmt.Errorf("open ledger: %w", err)
	}
	data, err := ledger.ExportSnapshot()
	if err != nil {
		return "", fmt.Errorf("export snapshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	path := filepath.Join(w.dir, backupPrefix+takenAt.Format(backupLayout)+backupSuffix)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	w.lastBackup = takenAt

	if err := w.prune(); err != nil {
		// the new backup is in place; old files linger until the next run
		w.logger.WarnContext(ctx, "Failed to prune old backups", applog.FieldError, err)
	}
	w.logger.DebugContext(ctx, "Snapshot written",
		applog.FieldOperation, applog.OpBackup,
		applog.FieldPath, path,
		applog.FieldBytes, len(data))
	return path, nil
}

// Backups lists backup files oldest first.
func (w *BackupWorker) Backups() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (w *BackupWorker) prune() error {
	names, err := w.Backups()
	if err != nil {
		return err
	}
	for len(names) > w.keep {
		if err := os.Remove(filepath.Join(w.dir, names[0])); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", names[0], err)
		}
		names = names[1:]
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename backup: %w", err)
	}
	return nil
}
