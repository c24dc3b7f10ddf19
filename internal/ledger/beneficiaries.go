package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

func (s *Store) ListBeneficiaries() []core.Beneficiary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.beneficiaries)
}

func (s *Store) GetBeneficiary(id string) (core.Beneficiary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.beneficiaryIndex(id)
	if i < 0 {
		return core.Beneficiary{}, false
	}
	return s.beneficiaries[i], true
}

func (s *Store) beneficiaryIndex(id string) int {
	for i, b := range s.beneficiaries {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// SaveBeneficiary appends b. Without an id one is derived from the current
// time in milliseconds. A duplicate id returns core.ErrConflict.
func (s *Store) SaveBeneficiary(ctx context.Context, b core.Beneficiary) (core.Beneficiary, error) {
	if err := b.Validate(); err != nil {
		return core.Beneficiary{}, fmt.Errorf("validate beneficiary: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b.Category = strings.ToLower(strings.TrimSpace(b.Category))
	if b.ID == "" {
		b.ID = s.timestampID(func(id string) bool { return s.beneficiaryIndex(id) >= 0 })
	} else if s.beneficiaryIndex(b.ID) >= 0 {
		return core.Beneficiary{}, fmt.Errorf("save beneficiary %s: %w", b.ID, core.ErrConflict)
	}

	s.beneficiaries = append(s.beneficiaries, b)
	if err := s.persistBeneficiaries(ctx); err != nil {
		return core.Beneficiary{}, err
	}
	s.notify(ctx, applog.OpCreate, KeyBeneficiaries)
	return b, nil
}

// DeleteBeneficiary removes the beneficiary and every contribution cell that
// references it. Either both collections are persisted or, on failure, the
// in-memory state is restored and the beneficiaries key is written back.
func (s *Store) DeleteBeneficiary(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keptB := make([]core.Beneficiary, 0, len(s.beneficiaries))
	for _, b := range s.beneficiaries {
		if b.ID != id {
			keptB = append(keptB, b)
		}
	}
	keptC := make([]core.Contribution, 0, len(s.contributions))
	for _, c := range s.contributions {
		if c.Kind() == core.KindCell && c.BeneficiaryID == id {
			continue
		}
		keptC = append(keptC, c)
	}
	removedC := len(s.contributions) - len(keptC)
	if len(keptB) == len(s.beneficiaries) && removedC == 0 {
		return nil
	}

	oldB, oldC := s.beneficiaries, s.contributions
	s.beneficiaries, s.contributions = keptB, keptC

	if err := s.persistBeneficiaries(ctx); err != nil {
		s.beneficiaries, s.contributions = oldB, oldC
		return err
	}
	if err := s.persistContributions(ctx); err != nil {
		s.beneficiaries, s.contributions = oldB, oldC
		if rbErr := s.persistBeneficiaries(ctx); rbErr != nil {
			s.logger.ErrorContext(ctx, "Failed to roll back beneficiary deletion",
				applog.FieldBeneficiaryID, id,
				applog.FieldError, rbErr)
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	s.logger.InfoContext(ctx, "Beneficiary deleted",
		applog.FieldBeneficiaryID, id,
		"cascaded_contributions", removedC)
	s.notify(ctx, applog.OpDelete, KeyBeneficiaries, KeyContributions)
	return nil
}

// timestampID returns the current unix milliseconds as a string, bumped
// until taken reports false.
func (s *Store) timestampID(taken func(string) bool) string {
	n := s.now().UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if !taken(id) {
			return id
		}
		n++
	}
}
