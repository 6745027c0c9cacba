package model

import (
	"math"
	"testing"
)

func TestValidCost(t *testing.T) {
	for _, v := range []float64{0, 0.01, 12.5, 1e6} {
		if !ValidCost(v) {
			t.Errorf("ValidCost(%v) = false, want true", v)
		}
	}
	for _, v := range []float64{-0.01, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if ValidCost(v) {
			t.Errorf("ValidCost(%v) = true, want false", v)
		}
	}
}

func TestWeeklyInvestmentState_Levels(t *testing.T) {
	tests := []struct {
		spent    float64
		usage    UsageLevel
		guidance GuidanceLevel
	}{
		{50, UsageLow, GuidanceExcellent},
		{100, UsageModerate, GuidanceGood},
		{160, UsageHigh, GuidanceModerate},
		{185, UsageVeryHigh, GuidanceModerate},
		{190, UsageVeryHigh, GuidanceHigh},
		{260, UsageVeryHigh, GuidanceHigh},
	}

	for _, tt := range tests {
		s := WeeklyInvestmentState{WeeklyCapacity: 200, CurrentSpent: tt.spent}
		if got := s.CapacityUsageLevel(); got != tt.usage {
			t.Errorf("spent=%.0f usage = %s, want %s", tt.spent, got, tt.usage)
		}
		if got := s.InvestmentGuidanceLevel(); got != tt.guidance {
			t.Errorf("spent=%.0f guidance = %s, want %s", tt.spent, got, tt.guidance)
		}
	}
}

func TestUsageLevelFor_Boundaries(t *testing.T) {
	tests := []struct {
		p    float64
		want UsageLevel
	}{
		{0, UsageLow},
		{0.2999, UsageLow},
		{0.30, UsageModerate},
		{0.6999, UsageModerate},
		{0.70, UsageHigh},
		{0.8999, UsageHigh},
		{0.90, UsageVeryHigh}, // inclusive cutoff
		{0.925, UsageVeryHigh},
	}
	for _, tt := range tests {
		if got := UsageLevelFor(tt.p); got != tt.want {
			t.Errorf("UsageLevelFor(%v) = %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestGuidanceLevelFor_Boundaries(t *testing.T) {
	tests := []struct {
		p    float64
		want GuidanceLevel
	}{
		{0.49, GuidanceExcellent},
		{0.50, GuidanceGood},
		{0.80, GuidanceModerate},
		{0.95, GuidanceHigh},
	}
	for _, tt := range tests {
		if got := GuidanceLevelFor(tt.p); got != tt.want {
			t.Errorf("GuidanceLevelFor(%v) = %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestCapacityProgress_ZeroCapacity(t *testing.T) {
	s := WeeklyInvestmentState{WeeklyCapacity: 0, CurrentSpent: 40}
	if p := s.CapacityProgress(); p != 0 {
		t.Fatalf("CapacityProgress = %v, want 0", p)
	}
	if s.CapacityUsageLevel() != UsageLow {
		t.Fatalf("usage = %s, want low", s.CapacityUsageLevel())
	}
}

func TestRemaining(t *testing.T) {
	cases := [][3]float64{
		{200, 50, 150},
		{200, 200, 0},
		{200, 250, 0},
		{0, 10, 0},
	}
	for _, c := range cases {
		if got := Remaining(c[0], c[1]); got != c[2] {
			t.Errorf("Remaining(%v, %v) = %v, want %v", c[0], c[1], got, c[2])
		}
	}
}

func TestExperienceProgress(t *testing.T) {
	s := WeeklyInvestmentState{ExperiencesLogged: 3, TargetExperiences: 12}
	if got := s.ExperienceProgress(); got != 0.25 {
		t.Fatalf("ExperienceProgress = %v, want 0.25", got)
	}
	s.TargetExperiences = 0
	if got := s.ExperienceProgress(); got != 0 {
		t.Fatalf("ExperienceProgress with no target = %v, want 0", got)
	}
}

func TestUserPreferences_WeeklyTarget(t *testing.T) {
	if got := (UserPreferences{MealFrequencyPerDay: 2}).WeeklyTarget(); got != 14 {
		t.Fatalf("WeeklyTarget = %d, want 14", got)
	}
	if got := (UserPreferences{}).WeeklyTarget(); got != 0 {
		t.Fatalf("WeeklyTarget = %d, want 0", got)
	}
}
