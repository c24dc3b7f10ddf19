package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

// Snapshot is the export document. Field order is the wire order.
type Snapshot struct {
	Members         []core.Member         `json:"members"`
	Contributions   []core.Contribution   `json:"contributions"`
	Savings         []core.Saving         `json:"savings"`
	Beneficiaries   []core.Beneficiary    `json:"beneficiaries"`
	DepartedMembers []core.DepartedMember `json:"departedMembers"`
	Settings        core.Settings         `json:"settings"`
	ExportDate      time.Time             `json:"exportDate"`
}

// importDoc tells present fields (non-nil) from absent ones.
type importDoc struct {
	Members         *[]core.Member         `json:"members"`
	Contributions   *[]core.Contribution   `json:"contributions"`
	Savings         *[]core.Saving         `json:"savings"`
	Beneficiaries   *[]core.Beneficiary    `json:"beneficiaries"`
	DepartedMembers *[]core.DepartedMember `json:"departedMembers"`
	Settings        *core.Settings         `json:"settings"`
}

// ExportSnapshot serializes every collection, the settings and the export time.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.Lock()
	snap := Snapshot{
		Members:         nonNil(clone(s.members)),
		Contributions:   nonNil(clone(s.contributions)),
		Savings:         nonNil(clone(s.savings)),
		Beneficiaries:   nonNil(clone(s.beneficiaries)),
		DepartedMembers: nonNil(clone(s.departed)),
		Settings:        s.settings,
		ExportDate:      s.now().UTC(),
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// ImportSnapshot replaces each collection present in data and persists it.
// Absent fields are left untouched and unknown fields are ignored.
//
// ok is false when data cannot be parsed; nothing changes in that case.
// err reports a persistence failure: collections written before it keep
// their new content.
func (s *Store) ImportSnapshot(ctx context.Context, data []byte) (ok bool, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false, nil
	}
	var doc importDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		s.logger.WarnContext(ctx, "Rejected malformed snapshot",
			applog.FieldErrorType, applog.ErrorTypeValidation,
			applog.FieldError, err)
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	if doc.Members != nil {
		s.members = *doc.Members
		if err := s.persistMembers(ctx); err != nil {
			return false, err
		}
		changed = append(changed, KeyMembers)
	}
	if doc.Contributions != nil {
		s.contributions = *doc.Contributions
		if err := s.persistContributions(ctx); err != nil {
			return false, err
		}
		changed = append(changed, KeyContributions)
	}
	if doc.Savings != nil {
		s.savings = *doc.Savings
		if err := s.persistSavings(ctx); err != nil {
			return false, err
		}
		changed = append(changed, KeySavings)
		if s.bumpSavingsCounter() {
			if err := s.persistSavingsCounter(ctx); err != nil {
				return false, err
			}
			changed = append(changed, KeySavingsCounter)
		}
	}
	if doc.Beneficiaries != nil {
		s.beneficiaries = *doc.Beneficiaries
		if err := s.persistBeneficiaries(ctx); err != nil {
			return false, err
		}
		changed = append(changed, KeyBeneficiaries)
	}
	if doc.DepartedMembers != nil {
		s.departed = *doc.DepartedMembers
		if err := s.persistDeparted(ctx); err != nil {
			return false, err
		}
		changed = append(changed, KeyDepartedMembers)
	}
	if doc.Settings != nil {
		s.settings = *doc.Settings
		if err := s.persistSettings(ctx); err != nil {
			return false, err
		}
		changed = append(changed, KeySettings)
	}

	s.logger.InfoContext(ctx, "Snapshot imported", "collections", changed)
	s.notify(ctx, applog.OpImport, changed...)
	return true, nil
}

// ClearAll empties every collection and the settings, resets the savings
// counter and persists all of it.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members = nil
	s.contributions = nil
	s.savings = nil
	s.beneficiaries = nil
	s.departed = nil
	s.settings = core.Settings{}
	s.savingsCounter = initialSavingsCounter

	writes := []func(context.Context) error{
		s.persistMembers,
		s.persistContributions,
		s.persistSavings,
		s.persistBeneficiaries,
		s.persistDeparted,
		s.persistSettings,
		s.persistSavingsCounter,
	}
	for _, w := range writes {
		if err := w(ctx); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "All ledger data cleared")
	s.notify(ctx, applog.OpClear,
		KeyMembers, KeyContributions, KeySavings, KeyBeneficiaries,
		KeyDepartedMembers, KeySettings, KeySavingsCounter)
	return nil
}
