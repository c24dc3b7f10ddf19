package core

import (
	"fmt"
	"strings"
)

// Settings is the association-wide configuration.
//
// Zero values mean "unset": Merge keeps the prior value for them and
// WithDefaults fills Currency with DefaultCurrency.
type Settings struct {
	FamilyName            string `json:"familyName,omitempty"`
	Address               string `json:"address,omitempty"`
	Currency              string `json:"currency,omitempty"`
	EmailNotifications    *bool  `json:"emailNotifications,omitempty"`
	ContributionReminders *bool  `json:"contributionReminders,omitempty"`
}

// Merge applies the set fields of patch on top of s.
func (s Settings) Merge(patch Settings) Settings {
	out := s
	if patch.FamilyName != "" {
		out.FamilyName = patch.FamilyName
	}
	if patch.Address != "" {
		out.Address = patch.Address
	}
	if patch.Currency != "" {
		out.Currency = strings.ToUpper(patch.Currency)
	}
	if patch.EmailNotifications != nil {
		v := *patch.EmailNotifications
		out.EmailNotifications = &v
	}
	if patch.ContributionReminders != nil {
		v := *patch.ContributionReminders
		out.ContributionReminders = &v
	}
	return out
}

// WithDefaults returns s with documented defaults applied to unset fields.
func (s Settings) WithDefaults() Settings {
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	return s
}

func (s Settings) Validate() error {
	if s.Currency != "" && !IsKnownCurrency(s.Currency) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, s.Currency)
	}
	return nil
}

// RemindersEnabled reports whether contribution reminders are switched on.
func (s Settings) RemindersEnabled() bool {
	return s.ContributionReminders != nil && *s.ContributionReminders
}

// EmailEnabled reports whether email notifications are switched on.
func (s Settings) EmailEnabled() bool {
	return s.EmailNotifications != nil && *s.EmailNotifications
}

// Bool returns a pointer to v, for building Settings patches.
func Bool(v bool) *bool {
	return &v
}
