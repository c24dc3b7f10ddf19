package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

type fakeSource struct {
	settings core.Settings
	due      []core.Member
	windows  []time.Duration
}

func (f *fakeSource) Settings() core.Settings { return f.settings }

func (f *fakeSource) MembersDueForReminder(window time.Duration) []core.Member {
	f.windows = append(f.windows, window)
	return f.due
}

func openerFor(src *fakeSource, opens *int) OpenFunc {
	return func(context.Context) (ReminderSource, error) {
		*opens++
		return src, nil
	}
}

func TestDefaultReminderProcessorConfig(t *testing.T) {
	config := DefaultReminderProcessorConfig()

	if config.Interval != time.Hour {
		t.Errorf("expected Interval 1h, got %v", config.Interval)
	}
	if config.Window != 720*time.Hour {
		t.Errorf("expected Window 720h, got %v", config.Window)
	}
	if _, ok := config.Cadence.(WeeklyChecker); !ok {
		t.Errorf("expected weekly cadence, got %T", config.Cadence)
	}
}

func TestReminderProcessor_ProcessReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{
		settings: core.Settings{ContributionReminders: core.Bool(true)},
		due:      []core.Member{{ID: "MEMB-002", Name: "Barasa"}},
	}
	opens := 0
	p := NewReminderProcessor(openerFor(src, &opens), ReminderProcessorConfig{Window: 48 * time.Hour, Cadence: DailyChecker{}}, applog.Discard())

	due, err := p.ProcessReminders(ctx, now)
	if err != nil {
		t.Fatalf("ProcessReminders() error = %v", err)
	}
	if len(due) != 1 || due[0].ID != "MEMB-002" {
		t.Fatalf("ProcessReminders() = %+v", due)
	}
	if len(src.windows) != 1 || src.windows[0] != 48*time.Hour {
		t.Errorf("window passed to ledger = %v", src.windows)
	}
	if !p.LastRun().Equal(now) {
		t.Errorf("LastRun() = %v, want %v", p.LastRun(), now)
	}

	// same day: the cadence is not due and the ledger is not even opened
	due, err = p.ProcessReminders(ctx, now.Add(2*time.Hour))
	if err != nil || due != nil {
		t.Fatalf("second pass = %+v, %v", due, err)
	}
	if opens != 1 {
		t.Errorf("ledger opened %d times, want 1", opens)
	}

	due, err = p.ProcessReminders(ctx, now.AddDate(0, 0, 1))
	if err != nil || len(due) != 1 {
		t.Fatalf("next day pass = %+v, %v", due, err)
	}
}

func TestReminderProcessor_Disabled(t *testing.T) {
	src := &fakeSource{due: []core.Member{{ID: "MEMB-001"}}}
	opens := 0
	p := NewReminderProcessor(openerFor(src, &opens), ReminderProcessorConfig{}, applog.Discard())

	due, err := p.ProcessReminders(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("ProcessReminders() error = %v", err)
	}
	if due != nil || len(src.windows) != 0 {
		t.Errorf("disabled reminders must not list members: %+v", due)
	}
	if !p.LastRun().IsZero() {
		t.Errorf("a disabled pass must not count as a run")
	}
}

func TestReminderProcessor_OpenError(t *testing.T) {
	boom := errors.New("medium unavailable")
	p := NewReminderProcessor(func(context.Context) (ReminderSource, error) { return nil, boom }, ReminderProcessorConfig{}, applog.Discard())

	if _, err := p.ProcessReminders(context.Background(), time.Now()); !errors.Is(err, boom) {
		t.Fatalf("ProcessReminders() error = %v, want %v", err, boom)
	}
}

func TestReminderProcessor_NotInitialized(t *testing.T) {
	p := NewReminderProcessor(nil, ReminderProcessorConfig{}, applog.Discard())
	if _, err := p.ProcessReminders(context.Background(), time.Now()); err == nil {
		t.Error("expected error for processor without ledger")
	}
}

func TestReminderProcessor_RunStopsOnCancel(t *testing.T) {
	src := &fakeSource{settings: core.Settings{ContributionReminders: core.Bool(true)}}
	opens := 0
	p := NewReminderProcessor(openerFor(src, &opens), ReminderProcessorConfig{Interval: 10 * time.Millisecond}, applog.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
	if p.LastRun().IsZero() {
		t.Error("Run() should process immediately on startup")
	}
}
