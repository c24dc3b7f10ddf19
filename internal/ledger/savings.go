package ledger

import (
	"context"
	"fmt"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

// ListSavings returns savings with ids coerced to the SAV-NNN display form.
// Stored legacy ids are left as they are.
func (s *Store) ListSavings() []core.Saving {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Saving, len(s.savings))
	for i, sv := range s.savings {
		sv.ID = core.DisplaySavingID(sv.ID)
		out[i] = sv
	}
	return out
}

// SaveSaving appends sv. A missing or malformed id takes the next number of
// the persistent savings counter, which never goes back: deleting SAV-002
// does not make it available again.
func (s *Store) SaveSaving(ctx context.Context, sv core.Saving) (core.Saving, error) {
	if err := sv.Validate(); err != nil {
		return core.Saving{}, fmt.Errorf("validate saving: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := core.ParseSavingID(sv.ID); ok {
		if s.savingIndex(sv.ID) >= 0 {
			return core.Saving{}, fmt.Errorf("save saving %s: %w", sv.ID, core.ErrConflict)
		}
	} else {
		for s.savingIndex(core.FormatSavingID(s.savingsCounter)) >= 0 {
			s.savingsCounter++
		}
		sv.ID = core.FormatSavingID(s.savingsCounter)
		s.savingsCounter++
		if err := s.persistSavingsCounter(ctx); err != nil {
			return core.Saving{}, err
		}
	}
	if sv.Date.IsZero() {
		sv.Date = s.now()
	}

	s.savings = append(s.savings, sv)
	if s.bumpSavingsCounter() {
		// an explicit id at or above the counter must not be handed out again
		if err := s.persistSavingsCounter(ctx); err != nil {
			return core.Saving{}, err
		}
	}
	if err := s.persistSavings(ctx); err != nil {
		return core.Saving{}, err
	}
	s.logger.DebugContext(ctx, "Saving recorded",
		applog.FieldSavingID, sv.ID,
		applog.FieldMemberID, sv.MemberID,
		applog.FieldAmount, sv.Amount.String())
	s.notify(ctx, applog.OpCreate, KeySavingsCounter, KeySavings)
	return sv, nil
}

// DeleteSaving removes the saving whose stored or display id is id.
// A missing saving is not an error.
func (s *Store) DeleteSaving(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.savingIndex(id)
	if i < 0 {
		return nil
	}
	s.savings = append(s.savings[:i:i], s.savings[i+1:]...)
	if err := s.persistSavings(ctx); err != nil {
		return err
	}
	s.notify(ctx, applog.OpDelete, KeySavings)
	return nil
}

func (s *Store) savingIndex(id string) int {
	for i, sv := range s.savings {
		if sv.ID == id || core.DisplaySavingID(sv.ID) == id {
			return i
		}
	}
	return -1
}

// bumpSavingsCounter moves the counter past every stored SAV-NNN id. Legacy
// bare ids are left out: they may be timestamps, and allocation already
// skips numbers whose display form is taken.
func (s *Store) bumpSavingsCounter() bool {
	next := s.savingsCounter
	for _, sv := range s.savings {
		if n, ok := core.ParseSavingID(sv.ID); ok && n >= next {
			next = n + 1
		}
	}
	if next == s.savingsCounter {
		return false
	}
	s.savingsCounter = next
	return true
}
