// Package impact previews how a prospective meal expense would move the weekly budget.
//
// Classify is pure: it performs no I/O and never mutates the state it is given,
// so callers may run it on every keystroke while a cost is being typed.
package impact

import (
	"fmt"

	"github.com/theirongolddev/savor/internal/model"
)

// guidanceByImpact maps impact levels straight to guidance. It is a lookup,
// not a second pass over the ratio, and intentionally differs from
// model.GuidanceLevelFor.
var guidanceByImpact = map[model.UsageLevel]model.GuidanceLevel{
	model.UsageLow:      model.GuidanceExcellent,
	model.UsageModerate: model.GuidanceGood,
	model.UsageHigh:     model.GuidanceModerate,
	model.UsageVeryHigh: model.GuidanceHigh,
}

// Classify projects mealCost onto state.
func Classify(state model.WeeklyInvestmentState, mealCost float64) model.InvestmentImpact {
	projected := state.CurrentSpent + mealCost
	remaining := model.Remaining(state.WeeklyCapacity, projected)
	level := model.UsageLevelFor(model.Ratio(projected, state.WeeklyCapacity))
	exceeds := projected > state.WeeklyCapacity

	return model.InvestmentImpact{
		MealCost:           mealCost,
		ProjectedSpent:     projected,
		ProjectedRemaining: remaining,
		ImpactLevel:        level,
		GuidanceLevel:      GuidanceFor(level),
		Message:            message(level, exceeds, remaining),
		ExceedsCapacity:    exceeds,
	}
}

// GuidanceFor returns the guidance label paired with an impact level.
func GuidanceFor(level model.UsageLevel) model.GuidanceLevel {
	if g, ok := guidanceByImpact[level]; ok {
		return g
	}
	return model.GuidanceHigh
}

func message(level model.UsageLevel, exceeds bool, remaining float64) string {
	if exceeds {
		return "This would take you past this week's dining capacity. Consider a smaller amount or saving it for next week."
	}
	switch level {
	case model.UsageLow:
		return fmt.Sprintf("This keeps you well within your comfort zone, with $%.2f still available this week.", remaining)
	case model.UsageModerate:
		return fmt.Sprintf("Great balance! You'd still have $%.2f for more experiences this week.", remaining)
	case model.UsageHigh:
		return "This makes it a special experience. Enjoy it, and plan lighter meals for the rest of the week."
	default:
		return "This uses nearly all of this week's capacity. You may want to reconsider the amount."
	}
}
