// Package services provides the worker-side orchestration around the ledger.
//
// This file implements the Strategy Pattern for reminder cadences. Each
// cadence (daily, weekly, monthly) has its own strategy that decides whether
// a reminder run is due.
package services

import (
	"fmt"
	"time"
)

// CadenceChecker is the strategy interface for checking if a reminder run is due.
type CadenceChecker interface {
	// IsDue returns true if a run should happen now given the previous run.
	// A zero lastRun means reminders never ran.
	IsDue(lastRun, now time.Time) bool
}

// DailyChecker runs once per calendar day.
type DailyChecker struct{}

// IsDue returns true if the last run was before today.
func (DailyChecker) IsDue(lastRun, now time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	return lastRun.Format("2006-01-02") != now.Format("2006-01-02")
}

// WeeklyChecker runs once every 7 days.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the last run.
func (WeeklyChecker) IsDue(lastRun, now time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	return now.Sub(lastRun) >= 7*24*time.Hour
}

// MonthlyChecker runs once per calendar month.
type MonthlyChecker struct{}

// IsDue returns true if we're in a new month.
func (MonthlyChecker) IsDue(lastRun, now time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	return lastRun.Year() != now.Year() || lastRun.Month() != now.Month()
}

// cadenceStrategies maps cadence names to their checkers.
var cadenceStrategies = map[string]CadenceChecker{
	"daily":   DailyChecker{},
	"weekly":  WeeklyChecker{},
	"monthly": MonthlyChecker{},
}

// GetCadenceChecker returns the checker registered for cadence.
func GetCadenceChecker(cadence string) (CadenceChecker, error) {
	checker, ok := cadenceStrategies[cadence]
	if !ok {
		return nil, fmt.Errorf("unknown reminder cadence: %s", cadence)
	}
	return checker, nil
}

// RegisterCadenceChecker registers a checker for a new cadence name.
func RegisterCadenceChecker(cadence string, checker CadenceChecker) {
	cadenceStrategies[cadence] = checker
}
