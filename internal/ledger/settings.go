package ledger

import (
	"context"
	"fmt"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

// Settings returns the stored settings with defaults applied.
func (s *Store) Settings() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Settings{}.Merge(s.settings).WithDefaults()
}

// UpdateSettings merges the set fields of patch into the stored settings.
func (s *Store) UpdateSettings(ctx context.Context, patch core.Settings) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.settings.Merge(patch)
	if err := merged.Validate(); err != nil {
		return core.Settings{}, fmt.Errorf("validate settings: %w", err)
	}
	s.settings = merged
	if err := s.persistSettings(ctx); err != nil {
		return core.Settings{}, err
	}
	s.notify(ctx, applog.OpUpdate, KeySettings)
	return core.Settings{}.Merge(merged).WithDefaults(), nil
}
