package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: ComponentApp, Handler: slog.NewTextHandler(&buf, nil)})

	logger.WithComponent(ComponentLedger).Info("member saved", FieldMemberID, "MEMB-001")

	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "member_id=MEMB-001") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("component must appear once: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := Discard().WithComponent(ComponentWorker)
	ctx := NewContext(context.Background(), logger)
	if got := FromContext(ctx); got.Component() != ComponentWorker {
		t.Fatalf("expected worker component, got %q", got.Component())
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %q", got.Component())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithComponent(ComponentLedger).WithOperation(OpDepart).WithError(nil)
	if len(f) != 2 {
		t.Fatalf("nil error must not add a field: %v", f)
	}
	if len(f.ToSlice()) != 4 {
		t.Fatalf("unexpected slice %v", f.ToSlice())
	}
}
