package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   MemberStatus = "active"
	StatusSenior   MemberStatus = "senior"
	StatusDeparted MemberStatus = "departed"
)

// SeniorAge is the age from which a member is always saved as senior.
const SeniorAge = 60

const (
	CategoryBenevolence = "benevolence"
	CategoryEducation   = "education"
	CategoryHealth      = "health"
	CategoryCharity     = "charity"
)

// DashboardCategories is the fixed breakdown used by the dashboard.
var DashboardCategories = []string{CategoryBenevolence, CategoryEducation, CategoryHealth, CategoryCharity}

type (
	MemberStatus string

	Member struct {
		ID             string       `json:"id"`
		Name           string       `json:"name"`
		Email          string       `json:"email"`
		Phone          string       `json:"phone"`
		DateOfBirth    Date         `json:"dateOfBirth"`
		Status         MemberStatus `json:"status"`
		JoinDate       time.Time    `json:"joinDate"`
		ProfilePicture string       `json:"profilePicture,omitempty"`
	}

	// Eulogy holds the memorial texts attached to a departed member.
	Eulogy struct {
		Introduction string `json:"eulogyIntroduction,omitempty"`
		Biography    string `json:"eulogyBiography,omitempty"`
		Anecdotes    string `json:"eulogyAnecdotes,omitempty"`
		Legacy       string `json:"eulogyLegacy,omitempty"`
		Closing      string `json:"eulogyClosing,omitempty"`
		Photo        string `json:"eulogyPhoto,omitempty"`
	}

	// DepartedMember is the frozen copy of a member taken when they departed.
	DepartedMember struct {
		Member
		DepartureDate time.Time `json:"departureDate"`
		Reason        string    `json:"reason"`
		Eulogy
	}

	Beneficiary struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Category string `json:"category"`
	}

	// Contribution is either a matrix cell keyed by (MemberID, BeneficiaryID)
	// or a legacy record keyed by ID and tagged with a Type.
	Contribution struct {
		ID            string          `json:"id,omitempty"`
		MemberID      string          `json:"memberId"`
		MemberName    string          `json:"memberName,omitempty"`
		BeneficiaryID string          `json:"beneficiaryId,omitempty"`
		Type          string          `json:"type,omitempty"`
		Amount        decimal.Decimal `json:"amount"`
		Date          time.Time       `json:"date"`
	}

	Saving struct {
		ID         string          `json:"id"`
		MemberID   string          `json:"memberId"`
		MemberName string          `json:"memberName"`
		Amount     decimal.Decimal `json:"amount"`
		Date       time.Time       `json:"date"`
	}

	ContributionKind int
)

const (
	KindCell ContributionKind = iota
	KindLegacy
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidStatus   = errors.New("invalid member status")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyMemberID   = errors.New("empty member id")
	ErrEmptyID         = errors.New("empty id")
)

func (s MemberStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusSenior, StatusDeparted:
		return true
	default:
		return false
	}
}

// Kind reports which of the two contribution shapes c has.
func (c Contribution) Kind() ContributionKind {
	if c.BeneficiaryID != "" {
		return KindCell
	}
	return KindLegacy
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if m.Status != "" && !m.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func (b Beneficiary) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (s Saving) Validate() error {
	if strings.TrimSpace(s.MemberID) == "" {
		return ErrEmptyMemberID
	}
	return nil
}

// Age returns the number of whole years between dob and now.
// A zero dob yields 0.
func Age(dob Date, now time.Time) int {
	if dob.IsZero() {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Time.Month() || (now.Month() == dob.Time.Month() && now.Day() < dob.Time.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// YearsOfService counts full years since joined, looking at months only.
func YearsOfService(joined, now time.Time) int {
	if joined.IsZero() {
		return 0
	}
	years := now.Year() - joined.Year()
	if now.Month() < joined.Month() {
		years--
	}
	return years
}
