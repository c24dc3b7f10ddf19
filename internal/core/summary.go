package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DashboardStats is the derived summary shown on the dashboard.
type DashboardStats struct {
	MemberCount               int              `json:"memberCount"`
	TotalSavings              decimal.Decimal  `json:"totalSavings"`
	TotalContributions        decimal.Decimal  `json:"totalContributions"`
	ActiveContributorCount30d int              `json:"activeContributorCount30d"`
	ContributionsByCategory   []CategoryAmount `json:"contributionsByCategory"`
}

// BeneficiarySummary aggregates the contribution cells of one beneficiary.
type BeneficiarySummary struct {
	Beneficiary  Beneficiary     `json:"beneficiary"`
	Total        decimal.Decimal `json:"total"`
	Contributors int             `json:"contributors"`
	Average      decimal.Decimal `json:"average"`
}

// MatrixRow is one member's line of the contribution matrix. Amounts is
// aligned with ContributionMatrix.Beneficiaries; Filled marks existing cells.
type MatrixRow struct {
	Member  Member            `json:"member"`
	Amounts []decimal.Decimal `json:"amounts"`
	Filled  []bool            `json:"filled"`
	Total   decimal.Decimal   `json:"total"`
}

// ContributionMatrix is the members x beneficiaries grid with derived totals.
type ContributionMatrix struct {
	Beneficiaries []Beneficiary     `json:"beneficiaries"`
	Rows          []MatrixRow       `json:"rows"`
	ColumnTotals  []decimal.Decimal `json:"columnTotals"`
	GrandTotal    decimal.Decimal   `json:"grandTotal"`
}

// MemberTotal is the contribution tally of one member.
type MemberTotal struct {
	Member Member          `json:"member"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
	Level  string          `json:"level"`
}

// SeniorMember decorates a senior with their years of service.
type SeniorMember struct {
	Member
	YearsOfService int `json:"yearsOfService"`
}

// AchievementLevel ranks a member by the number of contributions made.
func AchievementLevel(count int) string {
	switch {
	case count >= 15:
		return "Gold"
	case count >= 10:
		return "Silver"
	case count >= 5:
		return "Bronze"
	default:
		return "Contributor"
	}
}

// NextThreshold is the contribution count needed for the next level.
func NextThreshold(count int) int {
	switch {
	case count < 5:
		return 5
	case count < 10:
		return 10
	default:
		return 15
	}
}
