package achievement

import (
	"strings"

	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/pipeline"
)

// Catalogue ids. Keep these stable: unlock ledgers store them.
const (
	FirstExperience     = "first_experience"
	WeekOptimizer       = "week_optimizer"
	ExperienceExplorer  = "experience_explorer"
	ConsistencyChampion = "consistency_champion"
	CelebrationMoment   = "celebration_moment"
)

const (
	optimizerMaxProgress  = 0.80
	optimizerMinMeals     = 5
	explorerMinMealTypes  = 5
	consistencyStreakDays = 7
)

var celebrationWords = []string{"celebrat", "birthday", "anniversary"}

// Facts is everything the rules look at, gathered once per evaluation.
type Facts struct {
	State             model.WeeklyInvestmentState
	MealCount         int
	DistinctMealTypes int
	LongestStreak     int
	HasCelebration    bool
}

// Gather derives Facts from the current week state and the full meal history.
func Gather(state model.WeeklyInvestmentState, meals []model.Meal) Facts {
	f := Facts{
		State:             state,
		MealCount:         len(meals),
		DistinctMealTypes: pipeline.DistinctMealTypes(meals),
		LongestStreak:     pipeline.LongestDailyStreak(meals),
	}
	for _, m := range meals {
		if isCelebration(m) {
			f.HasCelebration = true
			break
		}
	}
	return f
}

func isCelebration(m model.Meal) bool {
	if pipeline.NormalizeMealType(m.MealType) == "celebration" {
		return true
	}
	if m.Notes == "" {
		return false
	}
	notes := strings.ToLower(m.Notes)
	for _, w := range celebrationWords {
		if strings.Contains(notes, w) {
			return true
		}
	}
	return false
}

// Rule pairs a catalogue entry with its unlock predicate.
type Rule struct {
	Achievement model.Achievement
	Satisfied   func(Facts) bool
}

// Catalog returns the rule set in display order.
func Catalog() []Rule {
	return []Rule{
		{
			Achievement: model.Achievement{
				ID:          FirstExperience,
				Title:       "First Experience",
				Description: "Log your first dining experience",
				Category:    model.CategoryMilestone,
				Points:      10,
				IconName:    "star",
			},
			Satisfied: func(f Facts) bool { return f.MealCount >= 1 },
		},
		{
			Achievement: model.Achievement{
				ID:          WeekOptimizer,
				Title:       "Week Optimizer",
				Description: "Enjoy five experiences in a week while staying under 80% of your capacity",
				Category:    model.CategoryBudget,
				Points:      50,
				IconName:    "chart",
			},
			Satisfied: func(f Facts) bool {
				s := f.State
				return s.WeeklyCapacity > 0 &&
					s.CurrentSpent/s.WeeklyCapacity < optimizerMaxProgress &&
					s.ExperiencesLogged >= optimizerMinMeals
			},
		},
		{
			Achievement: model.Achievement{
				ID:          ExperienceExplorer,
				Title:       "Experience Explorer",
				Description: "Try five different kinds of dining experience",
				Category:    model.CategoryVariety,
				Points:      30,
				IconName:    "compass",
			},
			Satisfied: func(f Facts) bool { return f.DistinctMealTypes >= explorerMinMealTypes },
		},
		{
			Achievement: model.Achievement{
				ID:          ConsistencyChampion,
				Title:       "Consistency Champion",
				Description: "Log meals on seven days in a row",
				Category:    model.CategoryConsistency,
				Points:      40,
				IconName:    "calendar",
			},
			Satisfied: func(f Facts) bool { return f.LongestStreak >= consistencyStreakDays },
		},
		{
			Achievement: model.Achievement{
				ID:          CelebrationMoment,
				Title:       "Celebration Moment",
				Description: "Mark a special occasion with a celebration meal",
				Category:    model.CategoryCelebration,
				Points:      20,
				IconName:    "party",
			},
			Satisfied: func(f Facts) bool { return f.HasCelebration },
		},
	}
}
