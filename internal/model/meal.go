// Package model defines domain types for meal spending, weekly budgets and achievements.
package model

import (
	"math"
	"time"
)

// Meal is one logged dining experience.
type Meal struct {
	ID       string
	UserID   string
	MealType string
	Cost     float64
	Date     time.Time
	Notes    string
}

// ValidCost reports whether v can be recorded as a meal cost: a finite,
// non-negative amount.
func ValidCost(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// UserPreferences is the subset of stored user settings the budget engine reads.
type UserPreferences struct {
	WeeklyBudget        float64
	MealFrequencyPerDay int
	BudgetLevel         int
}

// WeeklyTarget returns the number of experiences expected over seven days.
func (p UserPreferences) WeeklyTarget() int {
	if p.MealFrequencyPerDay <= 0 {
		return 0
	}
	return p.MealFrequencyPerDay * 7
}
