package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"famledger/internal/config"
	"famledger/internal/core"
	applog "famledger/internal/log"
)

func TestSetupLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=app") {
		t.Errorf("warn record missing or without component: %s", out)
	}
}

func TestOpenLedgerFileBackend(t *testing.T) {
	var buf bytes.Buffer
	ctx := applog.NewContext(context.Background(), SetupLogger(&buf, "error"))
	cfg := &config.Config{
		Backend:   config.BackendFile,
		DataDir:   filepath.Join(t.TempDir(), "data"),
		KeyPrefix: "test_",
	}

	store, cleanup, err := OpenLedger(ctx, cfg, true)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	if _, err := store.SaveMember(ctx, core.Member{Name: "Achieng"}); err != nil {
		t.Fatalf("SaveMember() error = %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() error = %v", err)
	}

	reopened, cleanup, err := OpenLedger(ctx, cfg, false)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	defer cleanup()
	if got := reopened.ListActiveMembers(); len(got) != 1 || got[0].ID != "MEMB-001" {
		t.Fatalf("reopened ledger members = %+v", got)
	}
}

func TestOpenLedgerRejectsUnknownBackend(t *testing.T) {
	var buf bytes.Buffer
	ctx := applog.NewContext(context.Background(), SetupLogger(&buf, "error"))
	_, _, err := OpenLedger(ctx, &config.Config{Backend: "postgres"}, false)
	if err == nil {
		t.Fatal("OpenLedger() error = nil, want error")
	}
}

func TestOpenLedgerLogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := applog.NewContext(context.Background(), SetupLogger(&buf, "debug"))
	cfg := &config.Config{Backend: config.BackendMemory, KeyPrefix: "test_"}

	store, cleanup, err := OpenLedger(ctx, cfg, false)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	defer cleanup()
	if _, err := store.SaveMember(ctx, core.Member{Name: "Achieng"}); err != nil {
		t.Fatalf("SaveMember() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "component=backend") || !strings.Contains(out, "component=ledger") {
		t.Fatalf("expected backend and ledger records in context logger output:\n%s", out)
	}
}

func TestLoadLedgerReleasesBackend(t *testing.T) {
	var buf bytes.Buffer
	ctx := applog.NewContext(context.Background(), SetupLogger(&buf, "error"))
	cfg := &config.Config{
		Backend:      config.BackendSQLite,
		SQLiteDBPath: filepath.Join(t.TempDir(), "famledger.db"),
		KeyPrefix:    "test_",
	}

	writer, cleanup, err := OpenLedger(ctx, cfg, false)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	if _, err := writer.SaveMember(ctx, core.Member{Name: "Achieng"}); err != nil {
		t.Fatalf("SaveMember() error = %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() error = %v", err)
	}

	store, err := LoadLedger(ctx, cfg)
	if err != nil {
		t.Fatalf("LoadLedger() error = %v", err)
	}
	if got := store.ListActiveMembers(); len(got) != 1 || got[0].Name != "Achieng" {
		t.Fatalf("loaded members = %+v", got)
	}
	if _, err := store.ExportSnapshot(); err != nil {
		t.Fatalf("ExportSnapshot() after release error = %v", err)
	}
}

func TestReleaseBackendLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	ctx := applog.NewContext(context.Background(), SetupLogger(&buf, "warn"))

	releaseBackend(ctx, func() error { return errors.New("database is locked") })

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "Failed to release ledger backend") ||
		!strings.Contains(out, "database is locked") {
		t.Fatalf("unexpected log output %q", out)
	}
}
