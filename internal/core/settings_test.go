package core

import (
	"errors"
	"testing"
)

func TestSettingsMerge(t *testing.T) {
	base := Settings{FamilyName: "Wanjiru", Address: "Nairobi", EmailNotifications: Bool(true)}
	got := base.Merge(Settings{Currency: "usd", ContributionReminders: Bool(true)})

	if got.FamilyName != "Wanjiru" || got.Address != "Nairobi" {
		t.Fatalf("unset fields must keep prior values: %+v", got)
	}
	if got.Currency != "USD" {
		t.Fatalf("expected upper-cased currency, got %q", got.Currency)
	}
	if !got.EmailEnabled() || !got.RemindersEnabled() {
		t.Fatalf("expected both flags on: %+v", got)
	}

	got = got.Merge(Settings{EmailNotifications: Bool(false)})
	if got.EmailEnabled() {
		t.Fatalf("explicit false must override")
	}
}

func TestSettingsDefaults(t *testing.T) {
	if got := (Settings{}).WithDefaults().Currency; got != DefaultCurrency {
		t.Fatalf("expected default currency, got %q", got)
	}
	if got := (Settings{Currency: "EUR"}).WithDefaults().Currency; got != "EUR" {
		t.Fatalf("expected EUR kept, got %q", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := (Settings{Currency: "KES"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Settings{Currency: "NOPE"}).Validate(); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestAchievementLevel(t *testing.T) {
	cases := map[int]string{0: "Contributor", 4: "Contributor", 5: "Bronze", 10: "Silver", 15: "Gold", 40: "Gold"}
	for n, want := range cases {
		if got := AchievementLevel(n); got != want {
			t.Errorf("AchievementLevel(%d) = %q, want %q", n, got, want)
		}
	}
	if NextThreshold(3) != 5 || NextThreshold(7) != 10 || NextThreshold(12) != 15 || NextThreshold(20) != 15 {
		t.Fatalf("unexpected thresholds")
	}
}
