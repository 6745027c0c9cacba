package model

import "time"

// AchievementCategory groups achievements by theme.
type AchievementCategory string

const (
	CategoryMilestone   AchievementCategory = "milestone"
	CategoryBudget      AchievementCategory = "budget"
	CategoryVariety     AchievementCategory = "variety"
	CategoryConsistency AchievementCategory = "consistency"
	CategoryCelebration AchievementCategory = "celebration"
)

// Achievement is a catalogue entry, optionally stamped with its unlock time.
type Achievement struct {
	ID          string              `json:"id" yaml:"id"`
	Title       string              `json:"title" yaml:"title"`
	Description string              `json:"description" yaml:"description"`
	Category    AchievementCategory `json:"category" yaml:"category"`
	Points      int                 `json:"points" yaml:"points"`
	IconName    string              `json:"icon_name" yaml:"icon_name"`
	IsUnlocked  bool                `json:"is_unlocked" yaml:"is_unlocked"`
	UnlockedAt  *time.Time          `json:"unlocked_at,omitempty" yaml:"unlocked_at,omitempty"`
}

// AchievementState is the engine's view of a user's progress.
type AchievementState struct {
	UnlockedAchievements  []Achievement
	AvailableAchievements []Achievement
	TotalPoints           int
	CurrentLevel          string
	LatestAchievement     *Achievement
}

// IsUnlocked reports whether the achievement id is already in the ledger.
func (s AchievementState) IsUnlocked(id string) bool {
	for _, a := range s.UnlockedAchievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Unlock records a persisted ledger row.
type Unlock struct {
	AchievementID string
	UnlockedAt    time.Time
}
