package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"famledger/internal/core"
)

// recentDays is the look-back used for the active contributor count.
const recentDays = 30

// DashboardStats recomputes the dashboard summary from the current state.
func (s *Store) DashboardStats() core.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := core.DashboardStats{
		MemberCount:        len(s.activeMembers()),
		TotalSavings:       decimal.Zero,
		TotalContributions: decimal.Zero,
	}
	for _, sv := range s.savings {
		stats.TotalSavings = stats.TotalSavings.Add(sv.Amount)
	}

	cutoff := s.now().AddDate(0, 0, -recentDays)
	recent := map[string]struct{}{}
	byCategory := map[string]decimal.Decimal{}
	for _, c := range s.contributions {
		stats.TotalContributions = stats.TotalContributions.Add(c.Amount)
		if !c.Date.Before(cutoff) {
			recent[c.MemberID] = struct{}{}
		}
		if c.Kind() != core.KindCell {
			continue
		}
		if i := s.beneficiaryIndex(c.BeneficiaryID); i >= 0 {
			cat := strings.ToLower(s.beneficiaries[i].Category)
			byCategory[cat] = byCategory[cat].Add(c.Amount)
		}
	}
	stats.ActiveContributorCount30d = len(recent)

	stats.ContributionsByCategory = make([]core.CategoryAmount, len(core.DashboardCategories))
	for i, cat := range core.DashboardCategories {
		stats.ContributionsByCategory[i] = core.CategoryAmount{Category: cat, Amount: byCategory[cat]}
	}
	return stats
}

// ContributionMatrix lays active members against beneficiaries with row,
// column and grand totals.
func (s *Store) ContributionMatrix() core.ContributionMatrix {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := core.ContributionMatrix{
		Beneficiaries: clone(s.beneficiaries),
		ColumnTotals:  make([]decimal.Decimal, len(s.beneficiaries)),
		GrandTotal:    decimal.Zero,
	}
	for j := range m.ColumnTotals {
		m.ColumnTotals[j] = decimal.Zero
	}
	for _, member := range s.activeMembers() {
		row := core.MatrixRow{
			Member:  member,
			Amounts: make([]decimal.Decimal, len(s.beneficiaries)),
			Filled:  make([]bool, len(s.beneficiaries)),
			Total:   decimal.Zero,
		}
		for j, b := range s.beneficiaries {
			row.Amounts[j] = decimal.Zero
			if i := s.cellIndex(member.ID, b.ID); i >= 0 {
				amount := s.contributions[i].Amount
				row.Amounts[j] = amount
				row.Filled[j] = true
				row.Total = row.Total.Add(amount)
				m.ColumnTotals[j] = m.ColumnTotals[j].Add(amount)
			}
		}
		m.GrandTotal = m.GrandTotal.Add(row.Total)
		m.Rows = append(m.Rows, row)
	}
	return m
}

// BeneficiarySummaries totals the contribution cells of each beneficiary.
func (s *Store) BeneficiarySummaries() []core.BeneficiarySummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.BeneficiarySummary, 0, len(s.beneficiaries))
	for _, b := range s.beneficiaries {
		sum := core.BeneficiarySummary{Beneficiary: b, Total: decimal.Zero, Average: decimal.Zero}
		contributors := map[string]struct{}{}
		for _, c := range s.contributions {
			if c.Kind() == core.KindCell && c.BeneficiaryID == b.ID {
				sum.Total = sum.Total.Add(c.Amount)
				contributors[c.MemberID] = struct{}{}
			}
		}
		sum.Contributors = len(contributors)
		if sum.Contributors > 0 {
			sum.Average = sum.Total.Div(decimal.NewFromInt(int64(sum.Contributors)))
		}
		out = append(out, sum)
	}
	return out
}

// MemberContributionTotals tallies both contribution shapes per active member.
func (s *Store) MemberContributionTotals() []core.MemberTotal {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.activeMembers()
	out := make([]core.MemberTotal, 0, len(active))
	for _, m := range active {
		t := core.MemberTotal{Member: m, Total: decimal.Zero}
		for _, c := range s.contributions {
			if c.MemberID == m.ID {
				t.Total = t.Total.Add(c.Amount)
				t.Count++
			}
		}
		t.Level = core.AchievementLevel(t.Count)
		out = append(out, t)
	}
	return out
}

// MembersDueForReminder returns active members without any contribution dated
// within window of now.
func (s *Store) MembersDueForReminder(window time.Duration) []core.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-window)
	recent := map[string]struct{}{}
	for _, c := range s.contributions {
		if !c.Date.Before(cutoff) {
			recent[c.MemberID] = struct{}{}
		}
	}
	var out []core.Member
	for _, m := range s.activeMembers() {
		if _, ok := recent[m.ID]; !ok {
			out = append(out, m)
		}
	}
	return out
}
