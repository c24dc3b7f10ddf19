package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

// ListContributions returns both contribution shapes in storage order.
func (s *Store) ListContributions() []core.Contribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.contributions)
}

// GetContribution returns the matrix cell for (memberID, beneficiaryID).
func (s *Store) GetContribution(memberID, beneficiaryID string) (core.Contribution, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.cellIndex(memberID, beneficiaryID)
	if i < 0 {
		return core.Contribution{}, false
	}
	return s.contributions[i], true
}

func (s *Store) cellIndex(memberID, beneficiaryID string) int {
	if beneficiaryID == "" {
		return -1
	}
	for i, c := range s.contributions {
		if c.MemberID == memberID && c.BeneficiaryID == beneficiaryID {
			return i
		}
	}
	return -1
}

// SaveContributionCell upserts the cell for (memberID, beneficiaryID). Any
// amount is accepted; a zero date means now.
func (s *Store) SaveContributionCell(ctx context.Context, memberID, beneficiaryID string, amount decimal.Decimal, date time.Time) (core.Contribution, error) {
	if memberID == "" || beneficiaryID == "" {
		return core.Contribution{}, fmt.Errorf("save contribution: %w", core.ErrEmptyID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if date.IsZero() {
		date = s.now()
	}
	c := core.Contribution{
		MemberID:      memberID,
		BeneficiaryID: beneficiaryID,
		Amount:        amount,
		Date:          date,
	}
	if i := s.cellIndex(memberID, beneficiaryID); i >= 0 {
		s.contributions[i] = c
	} else {
		s.contributions = append(s.contributions, c)
	}

	if err := s.persistContributions(ctx); err != nil {
		return core.Contribution{}, err
	}
	s.logger.DebugContext(ctx, "Contribution cell saved",
		applog.FieldMemberID, memberID,
		applog.FieldBeneficiaryID, beneficiaryID,
		applog.FieldAmount, amount.String())
	s.notify(ctx, applog.OpUpsert, KeyContributions)
	return c, nil
}

// DeleteContributionCell removes the cell if present. A missing cell is not an error.
func (s *Store) DeleteContributionCell(ctx context.Context, memberID, beneficiaryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cellIndex(memberID, beneficiaryID)
	if i < 0 {
		return nil
	}
	s.contributions = append(s.contributions[:i:i], s.contributions[i+1:]...)
	if err := s.persistContributions(ctx); err != nil {
		return err
	}
	s.notify(ctx, applog.OpDelete, KeyContributions)
	return nil
}

// ListLegacyContributions returns id+type contributions, optionally filtered by type.
func (s *Store) ListLegacyContributions(typ string) []core.Contribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Contribution
	for _, c := range s.contributions {
		if c.Kind() != core.KindLegacy {
			continue
		}
		if typ != "" && c.Type != typ {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SaveLegacyContribution appends a legacy record. Ids default to the current
// time in milliseconds; a duplicate id returns core.ErrConflict.
func (s *Store) SaveLegacyContribution(ctx context.Context, c core.Contribution) (core.Contribution, error) {
	if c.MemberID == "" {
		return core.Contribution{}, fmt.Errorf("save contribution: %w", core.ErrEmptyMemberID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.BeneficiaryID = ""
	if c.Date.IsZero() {
		c.Date = s.now()
	}
	if c.ID == "" {
		c.ID = s.timestampID(func(id string) bool { return s.legacyIndex(id) >= 0 })
	} else if s.legacyIndex(c.ID) >= 0 {
		return core.Contribution{}, fmt.Errorf("save contribution %s: %w", c.ID, core.ErrConflict)
	}

	s.contributions = append(s.contributions, c)
	if err := s.persistContributions(ctx); err != nil {
		return core.Contribution{}, err
	}
	s.notify(ctx, applog.OpCreate, KeyContributions)
	return c, nil
}

// DeleteLegacyContribution removes the legacy record with id, if any.
func (s *Store) DeleteLegacyContribution(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.legacyIndex(id)
	if i < 0 {
		return nil
	}
	s.contributions = append(s.contributions[:i:i], s.contributions[i+1:]...)
	if err := s.persistContributions(ctx); err != nil {
		return err
	}
	s.notify(ctx, applog.OpDelete, KeyContributions)
	return nil
}

func (s *Store) legacyIndex(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.contributions {
		if c.Kind() == core.KindLegacy && c.ID == id {
			return i
		}
	}
	return -1
}
