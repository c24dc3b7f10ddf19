// Package ledger owns every ledger collection in memory and persists each one
// to a medium.Medium after every mutation.
//
// A Store is built explicitly with Open and handed to whoever needs it. Queries
// return copies; callers re-query after a mutation to observe fresh state.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"famledger/internal/core"
	applog "famledger/internal/log"
	"famledger/internal/medium"
)

// DefaultKeyPrefix namespaces every persisted key.
const DefaultKeyPrefix = "familyManagement_"

// Persisted collection names. The medium key is prefix + name.
const (
	KeyMembers         = "members"
	KeyContributions   = "contributions"
	KeySavings         = "savings"
	KeyBeneficiaries   = "beneficiaries"
	KeyDepartedMembers = "departedMembers"
	KeySettings        = "settings"
	KeySavingsCounter  = "savingsCounter"
)

// initialSavingsCounter is the first SAV number handed out.
const initialSavingsCounter = 1

// ErrCorrupt is returned by Open when a stored collection cannot be decoded.
var ErrCorrupt = errors.New("corrupt collection")

// Notifier is told about every collection that was successfully persisted.
type Notifier interface {
	NotifyChange(ctx context.Context, collection, operation string) error
}

type Option func(*Store)

// WithLogger sets the logger used for mutation and persistence records.
func WithLogger(l *applog.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(applog.ComponentLedger) }
}

// WithNotifier registers n for change notifications. Notification failures
// are logged and never fail the mutation.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

type Store struct {
	mu       sync.Mutex
	medium   medium.Medium
	prefix   string
	now      func() time.Time
	logger   *applog.Logger
	notifier Notifier

	members        []core.Member
	contributions  []core.Contribution
	savings        []core.Saving
	beneficiaries  []core.Beneficiary
	departed       []core.DepartedMember
	settings       core.Settings
	savingsCounter int
}

// Open loads every collection from m once. Absent keys start empty.
// Without WithLogger the store logs through the logger carried by ctx.
func Open(ctx context.Context, m medium.Medium, opts ...Option) (*Store, error) {
	s := &Store{
		medium:         m,
		prefix:         DefaultKeyPrefix,
		now:            time.Now,
		logger:         applog.FromContext(ctx).WithComponent(applog.ComponentLedger),
		savingsCounter: initialSavingsCounter,
	}
	for _, opt := range opts {
		opt(s)
	}

	loads := []struct {
		key string
		dst any
	}{
		{KeyMembers, &s.members},
		{KeyContributions, &s.contributions},
		{KeySavings, &s.savings},
		{KeyBeneficiaries, &s.beneficiaries},
		{KeyDepartedMembers, &s.departed},
		{KeySettings, &s.settings},
		{KeySavingsCounter, &s.savingsCounter},
	}
	for _, l := range loads {
		if err := s.load(ctx, l.key, l.dst); err != nil {
			return nil, err
		}
	}
	if s.savingsCounter < initialSavingsCounter {
		s.savingsCounter = initialSavingsCounter
	}

	s.logger.DebugContext(ctx, "Ledger loaded",
		"members", len(s.members),
		"contributions", len(s.contributions),
		"savings", len(s.savings),
		"beneficiaries", len(s.beneficiaries),
		"departed", len(s.departed))
	return s, nil
}

func (s *Store) load(ctx context.Context, key string, dst any) error {
	data, ok, err := s.medium.Load(ctx, s.prefix+key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// persist re-serializes a whole collection under its key.
func (s *Store) persist(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.medium.Save(ctx, s.prefix+key, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist collection",
			applog.FieldCollection, key,
			applog.FieldErrorType, applog.ErrorTypePersistence,
			applog.FieldError, err)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *Store) notify(ctx context.Context, op string, collections ...string) {
	if s.notifier == nil {
		return
	}
	for _, c := range collections {
		if err := s.notifier.NotifyChange(ctx, c, op); err != nil {
			// Don't fail the mutation - it is already persisted
			s.logger.WarnContext(ctx, "Failed to publish change notification",
				applog.FieldCollection, c,
				applog.FieldOperation, op,
				applog.FieldError, err)
		}
	}
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func clone[T any](in []T) []T {
	return append(make([]T, 0, len(in)), in...)
}

func (s *Store) persistMembers(ctx context.Context) error {
	return s.persist(ctx, KeyMembers, nonNil(s.members))
}

func (s *Store) persistContributions(ctx context.Context) error {
	return s.persist(ctx, KeyContributions, nonNil(s.contributions))
}

func (s *Store) persistSavings(ctx context.Context) error {
	return s.persist(ctx, KeySavings, nonNil(s.savings))
}

func (s *Store) persistBeneficiaries(ctx context.Context) error {
	return s.persist(ctx, KeyBeneficiaries, nonNil(s.beneficiaries))
}

func (s *Store) persistDeparted(ctx context.Context) error {
	return s.persist(ctx, KeyDepartedMembers, nonNil(s.departed))
}

func (s *Store) persistSettings(ctx context.Context) error {
	return s.persist(ctx, KeySettings, s.settings)
}

func (s *Store) persistSavingsCounter(ctx context.Context) error {
	return s.persist(ctx, KeySavingsCounter, s.savingsCounter)
}
