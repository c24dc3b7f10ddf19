package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

// ReminderSource is the slice of the ledger the reminder processor reads.
type ReminderSource interface {
	Settings() core.Settings
	MembersDueForReminder(window time.Duration) []core.Member
}

// OpenFunc returns a fresh view of the ledger. The worker reopens the ledger
// on every run because other processes write to the same medium.
type OpenFunc func(ctx context.Context) (ReminderSource, error)

// ReminderProcessorConfig holds configuration for the reminder processor
type ReminderProcessorConfig struct {
	// Interval is how often the cadence is checked (default: 1h)
	Interval time.Duration

	// Window is how recent a contribution must be to skip a member (default: 30 days)
	Window time.Duration

	// Cadence decides whether a run is due (default: weekly)
	Cadence CadenceChecker
}

// DefaultReminderProcessorConfig returns sensible defaults
func DefaultReminderProcessorConfig() ReminderProcessorConfig {
	return ReminderProcessorConfig{
		Interval: time.Hour,
		Window:   30 * 24 * time.Hour,
		Cadence:  WeeklyChecker{},
	}
}

// ReminderProcessor periodically lists the active members who have not
// contributed recently, when the settings enable contribution reminders.
type ReminderProcessor struct {
	open   OpenFunc
	config ReminderProcessorConfig
	logger *applog.Logger
	now    func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

// NewReminderProcessor creates a new reminder processor
func NewReminderProcessor(open OpenFunc, config ReminderProcessorConfig, logger *applog.Logger) *ReminderProcessor {
	defaults := DefaultReminderProcessorConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}
	if config.Cadence == nil {
		config.Cadence = defaults.Cadence
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReminderProcessor{
		open:   open,
		config: config,
		logger: logger.WithComponent(applog.ComponentReminder),
		now:    time.Now,
	}
}

// LastRun returns when reminders were last produced.
func (p *ReminderProcessor) LastRun() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRun
}

// ProcessReminders runs one reminder pass at now. It returns the members that
// are due; nil when reminders are disabled or the cadence says not yet.
func (p *ReminderProcessor) ProcessReminders(ctx context.Context, now time.Time) ([]core.Member, error) {
	if p.open == nil {
		return nil, fmt.Errorf("processor not properly initialized")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.config.Cadence.IsDue(p.lastRun, now) {
		return nil, nil
	}

	src, err := p.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if !src.Settings().RemindersEnabled() {
		p.logger.DebugContext(ctx, "Contribution reminders disabled")
		return nil, nil
	}

	due := src.MembersDueForReminder(p.config.Window)
	for _, m := range due {
		p.logger.InfoContext(ctx, "Contribution reminder due",
			applog.FieldMemberID, m.ID,
			"name", m.Name,
			"email", m.Email,
			"phone", m.Phone)
	}
	p.lastRun = now

	p.logger.InfoContext(ctx, "Reminder pass complete",
		applog.FieldOperation, applog.OpRemind,
		applog.FieldCount, len(due),
		"window", p.config.Window.String())
	return due, nil
}

// Run checks the cadence every Interval until ctx is done. A failed pass is
// logged and retried on the next tick.
func (p *ReminderProcessor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.logger.InfoContext(ctx, "Reminder processor started",
		"interval", p.config.Interval.String())

	// Process immediately on startup
	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *ReminderProcessor) tick(ctx context.Context) {
	if _, err := p.ProcessReminders(ctx, p.now()); err != nil {
		p.logger.ErrorContext(ctx, "Reminder pass failed", applog.FieldError, err)
	}
}
