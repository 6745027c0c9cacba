// Package pipeline aggregates meal histories into weekly, daily and per-type totals.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/savor/internal/model"

	"github.com/shopspring/decimal"
)

const dayKeyLayout = "2006-01-02"

// WeekStart returns local midnight of the most recent start weekday at or before t.
func WeekStart(t time.Time, start time.Weekday) time.Time {
	local := t.Local()
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	offset := (int(midnight.Weekday()) - int(start) + 7) % 7
	return midnight.AddDate(0, 0, -offset)
}

// ParseWeekday maps a config value like "monday" or "Sun" to a weekday.
// Unknown values fall back to Monday.
func ParseWeekday(s string) time.Weekday {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d
		}
	}
	return time.Monday
}

// FilterByTime returns meals whose date falls within [since, until).
func FilterByTime(meals []model.Meal, since, until time.Time) []model.Meal {
	if since.IsZero() && until.IsZero() {
		return meals
	}

	var result []model.Meal
	for _, m := range meals {
		if m.Date.IsZero() {
			continue
		}
		if !since.IsZero() && m.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !m.Date.Before(until) {
			continue
		}
		result = append(result, m)
	}
	return result
}

// SumCost adds meal costs in decimal so repeated cents do not drift.
func SumCost(meals []model.Meal) float64 {
	total := decimal.Zero
	for _, m := range meals {
		total = total.Add(decimal.NewFromFloat(m.Cost))
	}
	f, _ := total.Float64()
	return f
}

// NormalizeMealType folds case and surrounding whitespace.
func NormalizeMealType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// DistinctMealTypes counts unique non-empty meal types.
func DistinctMealTypes(meals []model.Meal) int {
	seen := make(map[string]struct{})
	for _, m := range meals {
		if t := NormalizeMealType(m.MealType); t != "" {
			seen[t] = struct{}{}
		}
	}
	return len(seen)
}

// ActiveDays counts the distinct local calendar days with at least one meal.
func ActiveDays(meals []model.Meal) int {
	days := make(map[string]struct{})
	for _, m := range meals {
		if m.Date.IsZero() {
			continue
		}
		days[m.Date.Local().Format(dayKeyLayout)] = struct{}{}
	}
	return len(days)
}

// LongestDailyStreak returns the longest run of consecutive local calendar
// days that each have at least one meal.
func LongestDailyStreak(meals []model.Meal) int {
	days := make(map[time.Time]struct{}, len(meals))
	for _, m := range meals {
		if m.Date.IsZero() {
			continue
		}
		l := m.Date.Local()
		days[time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)] = struct{}{}
	}

	longest := 0
	for d := range days {
		// Only start counting from the first day of a run.
		if _, ok := days[d.AddDate(0, 0, -1)]; ok {
			continue
		}
		n := 1
		for next := d.AddDate(0, 0, 1); ; next = next.AddDate(0, 0, 1) {
			if _, ok := days[next]; !ok {
				break
			}
			n++
		}
		if n > longest {
			longest = n
		}
	}
	return longest
}

// AggregateDays computes per-day totals, filling empty days in the range with zeros.
// Results are sorted most recent first.
func AggregateDays(meals []model.Meal, since, until time.Time) []model.DailySpend {
	filtered := FilterByTime(meals, since, until)

	dayMap := make(map[string]*model.DailySpend)
	for _, m := range filtered {
		key := m.Date.Local().Format(dayKeyLayout)
		ds, ok := dayMap[key]
		if !ok {
			t, _ := time.ParseInLocation(dayKeyLayout, key, time.Local)
			ds = &model.DailySpend{Date: t}
			dayMap[key] = ds
		}
		ds.Meals++
		ds.Cost += m.Cost
	}

	if !since.IsZero() && !until.IsZero() {
		l := since.Local()
		day := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
		for day.Before(until) {
			key := day.Format(dayKeyLayout)
			if _, ok := dayMap[key]; !ok {
				dayMap[key] = &model.DailySpend{Date: day}
			}
			day = day.AddDate(0, 0, 1)
		}
	}

	days := make([]model.DailySpend, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// AggregateWeeks groups meals into tracked weeks starting on the given weekday.
// Results are sorted most recent first.
func AggregateWeeks(meals []model.Meal, start time.Weekday) []model.WeeklySpend {
	type bucket struct {
		spend model.WeeklySpend
		meals []model.Meal
	}
	weeks := make(map[time.Time]*bucket)

	for _, m := range meals {
		if m.Date.IsZero() {
			continue
		}
		ws := WeekStart(m.Date, start)
		b, ok := weeks[ws]
		if !ok {
			b = &bucket{spend: model.WeeklySpend{WeekStart: ws}}
			weeks[ws] = b
		}
		b.meals = append(b.meals, m)
	}

	result := make([]model.WeeklySpend, 0, len(weeks))
	for _, b := range weeks {
		b.spend.Meals = len(b.meals)
		b.spend.Cost = SumCost(b.meals)
		b.spend.MealTypes = DistinctMealTypes(b.meals)
		b.spend.ActiveDays = ActiveDays(b.meals)
		result = append(result, b.spend)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WeekStart.After(result[j].WeekStart)
	})
	return result
}

// AggregateMealTypes computes per-type totals sorted by cost descending.
func AggregateMealTypes(meals []model.Meal) []model.MealTypeSpend {
	typeMap := make(map[string]*model.MealTypeSpend)
	var total float64

	for _, m := range meals {
		key := NormalizeMealType(m.MealType)
		if key == "" {
			key = "other"
		}
		ts, ok := typeMap[key]
		if !ok {
			ts = &model.MealTypeSpend{MealType: key}
			typeMap[key] = ts
		}
		ts.Meals++
		ts.Cost += m.Cost
		total += m.Cost
	}

	types := make([]model.MealTypeSpend, 0, len(typeMap))
	for _, ts := range typeMap {
		if total > 0 {
			ts.SharePercent = ts.Cost / total * 100
		}
		types = append(types, *ts)
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Cost == types[j].Cost {
			return types[i].MealType < types[j].MealType
		}
		return types[i].Cost > types[j].Cost
	})
	return types
}
