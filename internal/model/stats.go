package model

import "time"

// DailySpend holds meal totals for one calendar day.
type DailySpend struct {
	Date  time.Time
	Meals int
	Cost  float64
}

// WeeklySpend holds meal totals for one tracked week.
type WeeklySpend struct {
	WeekStart  time.Time
	Meals      int
	Cost       float64
	MealTypes  int
	ActiveDays int
}

// MealTypeSpend holds totals for one meal type.
type MealTypeSpend struct {
	MealType     string
	Meals        int
	Cost         float64
	SharePercent float64
}
