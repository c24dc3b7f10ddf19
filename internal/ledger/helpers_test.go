package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"famledger/internal/core"
	applog "famledger/internal/log"
	"famledger/internal/medium/memory"
)

var errDiskFull = errors.New("disk full")

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// decimalEqual lets cmp compare amounts by value.
var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// flakyMedium wraps a memory store and fails saves for selected keys.
type flakyMedium struct {
	*memory.Store
	mu     sync.Mutex
	failOn map[string]bool
	saves  []string
}

func newFlakyMedium() *flakyMedium {
	return &flakyMedium{Store: memory.New(), failOn: map[string]bool{}}
}

func (f *flakyMedium) Save(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	fail := f.failOn[key]
	f.saves = append(f.saves, key)
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.Store.Save(ctx, key, data)
}

func (f *flakyMedium) fail(collection string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[DefaultKeyPrefix+collection] = true
}

func (f *flakyMedium) heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn = map[string]bool{}
}

func (f *flakyMedium) raw(t *testing.T, collection string) string {
	t.Helper()
	data, _, err := f.Store.Load(context.Background(), DefaultKeyPrefix+collection)
	if err != nil {
		t.Fatalf("raw load %s: %v", collection, err)
	}
	return string(data)
}

func openStore(t *testing.T, m *flakyMedium, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(applog.Discard()), WithClock(func() time.Time { return testNow })}, opts...)
	s, err := Open(context.Background(), m, opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func mustSaveMember(t *testing.T, s *Store, name string) core.Member {
	t.Helper()
	m, err := s.SaveMember(context.Background(), core.Member{Name: name, DateOfBirth: core.NewDate(1990, 1, 1)})
	if err != nil {
		t.Fatalf("save member %s: %v", name, err)
	}
	return m
}

func mustSaveBeneficiary(t *testing.T, s *Store, id, name, category string) core.Beneficiary {
	t.Helper()
	b, err := s.SaveBeneficiary(context.Background(), core.Beneficiary{ID: id, Name: name, Category: category})
	if err != nil {
		t.Fatalf("save beneficiary %s: %v", id, err)
	}
	return b
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recordingNotifier struct {
	events []string
	err    error
}

func (r *recordingNotifier) NotifyChange(_ context.Context, collection, op string) error {
	r.events = append(r.events, op+":"+collection)
	return r.err
}
