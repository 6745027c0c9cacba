package model

import "time"

// UsageLevel classifies raw consumption of the weekly capacity.
type UsageLevel string

const (
	UsageLow      UsageLevel = "low"
	UsageModerate UsageLevel = "moderate"
	UsageHigh     UsageLevel = "high"
	UsageVeryHigh UsageLevel = "very_high"
)

// GuidanceLevel is the advisory label shown next to spending.
type GuidanceLevel string

const (
	GuidanceExcellent GuidanceLevel = "excellent"
	GuidanceGood      GuidanceLevel = "good"
	GuidanceModerate  GuidanceLevel = "moderate"
	GuidanceHigh      GuidanceLevel = "high"
)

// UsageLevelFor buckets a spent/capacity ratio.
// The very_high cutoff is inclusive at exactly 0.90.
func UsageLevelFor(p float64) UsageLevel {
	switch {
	case p < 0.30:
		return UsageLow
	case p < 0.70:
		return UsageModerate
	case p < 0.90:
		return UsageHigh
	default:
		return UsageVeryHigh
	}
}

// GuidanceLevelFor buckets a spent/capacity ratio on the weekly guidance scale.
// This scale has its own cutoffs and is not derived from UsageLevelFor.
func GuidanceLevelFor(p float64) GuidanceLevel {
	switch {
	case p < 0.50:
		return GuidanceExcellent
	case p < 0.80:
		return GuidanceGood
	case p < 0.95:
		return GuidanceModerate
	default:
		return GuidanceHigh
	}
}

// Ratio returns spent/capacity, or 0 when capacity is not positive.
func Ratio(spent, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return spent / capacity
}

// Remaining returns max(0, capacity-spent).
func Remaining(capacity, spent float64) float64 {
	if r := capacity - spent; r > 0 {
		return r
	}
	return 0
}

// WeeklyInvestmentState is the tracker's snapshot of the current week.
type WeeklyInvestmentState struct {
	WeeklyCapacity    float64
	CurrentSpent      float64
	RemainingCapacity float64
	ExperiencesLogged int
	TargetExperiences int
	WeekStartDate     time.Time
	IsLoading         bool
	ErrorMessage      string
	LastUpdated       time.Time
}

// WeekEnd returns the exclusive end of the tracked week.
func (s WeeklyInvestmentState) WeekEnd() time.Time {
	return s.WeekStartDate.AddDate(0, 0, 7)
}

// CapacityProgress is CurrentSpent/WeeklyCapacity, defined as 0 for zero capacity.
func (s WeeklyInvestmentState) CapacityProgress() float64 {
	return Ratio(s.CurrentSpent, s.WeeklyCapacity)
}

// ExperienceProgress is ExperiencesLogged/TargetExperiences, 0 when no target is set.
func (s WeeklyInvestmentState) ExperienceProgress() float64 {
	if s.TargetExperiences <= 0 {
		return 0
	}
	return float64(s.ExperiencesLogged) / float64(s.TargetExperiences)
}

// CapacityUsageLevel is recomputed from CapacityProgress on every call.
func (s WeeklyInvestmentState) CapacityUsageLevel() UsageLevel {
	return UsageLevelFor(s.CapacityProgress())
}

// InvestmentGuidanceLevel is recomputed from CapacityProgress on every call.
func (s WeeklyInvestmentState) InvestmentGuidanceLevel() GuidanceLevel {
	return GuidanceLevelFor(s.CapacityProgress())
}

// HasError reports whether the last refresh failed.
func (s WeeklyInvestmentState) HasError() bool {
	return s.ErrorMessage != ""
}

// InvestmentImpact is the projected effect of a prospective expense. Never persisted.
type InvestmentImpact struct {
	MealCost           float64
	ProjectedSpent     float64
	ProjectedRemaining float64
	ImpactLevel        UsageLevel
	GuidanceLevel      GuidanceLevel
	Message            string
	ExceedsCapacity    bool
}
