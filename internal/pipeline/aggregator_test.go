package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/savor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.Local)
}

func TestWeekStart(t *testing.T) {
	// 2025-06-04 is a Wednesday.
	wed := day(2025, time.June, 4, 15)

	assert.Equal(t, day(2025, time.June, 2, 0), WeekStart(wed, time.Monday))
	assert.Equal(t, day(2025, time.June, 1, 0), WeekStart(wed, time.Sunday))
	assert.Equal(t, day(2025, time.June, 4, 0), WeekStart(wed, time.Wednesday))
	assert.Equal(t, day(2025, time.May, 29, 0), WeekStart(wed, time.Thursday))
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"monday":  time.Monday,
		"Sunday":  time.Sunday,
		" sat ":   time.Saturday,
		"":        time.Monday,
		"someday": time.Monday,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseWeekday(in), "input %q", in)
	}
}

func TestFilterByTime_HalfOpen(t *testing.T) {
	start := day(2025, time.June, 2, 0)
	end := start.AddDate(0, 0, 7)
	meals := []model.Meal{
		{MealType: "before", Date: start.Add(-time.Second)},
		{MealType: "start", Date: start},
		{MealType: "inside", Date: start.AddDate(0, 0, 3)},
		{MealType: "end", Date: end},
		{MealType: "undated"},
	}

	got := FilterByTime(meals, start, end)
	require.Len(t, got, 2)
	assert.Equal(t, "start", got[0].MealType)
	assert.Equal(t, "inside", got[1].MealType)
}

func TestSumCost_NoDrift(t *testing.T) {
	meals := make([]model.Meal, 10)
	for i := range meals {
		meals[i].Cost = 0.1
	}
	assert.Equal(t, 1.0, SumCost(meals))
	assert.Equal(t, 0.0, SumCost(nil))
}

func TestDistinctMealTypes(t *testing.T) {
	meals := []model.Meal{
		{MealType: "Italian"},
		{MealType: " italian "},
		{MealType: "sushi"},
		{MealType: ""},
		{MealType: "Tacos"},
	}
	assert.Equal(t, 3, DistinctMealTypes(meals))
}

func TestLongestDailyStreak(t *testing.T) {
	meals := []model.Meal{
		{Date: day(2025, time.June, 1, 12)},
		{Date: day(2025, time.June, 2, 9)},
		{Date: day(2025, time.June, 2, 20)},
		{Date: day(2025, time.June, 3, 12)},
		{Date: day(2025, time.June, 5, 12)},
		{Date: day(2025, time.June, 6, 12)},
	}
	assert.Equal(t, 3, LongestDailyStreak(meals))
	assert.Equal(t, 5, ActiveDays(meals))
	assert.Equal(t, 0, LongestDailyStreak(nil))
}

func TestAggregateDays_FillsGaps(t *testing.T) {
	start := day(2025, time.June, 2, 0)
	end := start.AddDate(0, 0, 7)
	meals := []model.Meal{
		{Cost: 10, Date: day(2025, time.June, 3, 12)},
		{Cost: 5, Date: day(2025, time.June, 3, 19)},
	}

	days := AggregateDays(meals, start, end)
	require.Len(t, days, 7)
	assert.True(t, days[0].Date.After(days[6].Date), "most recent first")

	var found bool
	for _, d := range days {
		if d.Date.Equal(day(2025, time.June, 3, 0)) {
			found = true
			assert.Equal(t, 2, d.Meals)
			assert.InDelta(t, 15.0, d.Cost, 1e-9)
		}
	}
	assert.True(t, found)
}

func TestAggregateWeeks(t *testing.T) {
	meals := []model.Meal{
		{MealType: "a", Cost: 10, Date: day(2025, time.June, 2, 12)},
		{MealType: "b", Cost: 20, Date: day(2025, time.June, 8, 12)},
		{MealType: "a", Cost: 5, Date: day(2025, time.June, 9, 12)},
	}

	weeks := AggregateWeeks(meals, time.Monday)
	require.Len(t, weeks, 2)
	assert.Equal(t, day(2025, time.June, 9, 0), weeks[0].WeekStart)
	assert.Equal(t, 1, weeks[0].Meals)
	assert.Equal(t, 30.0, weeks[1].Cost)
	assert.Equal(t, 2, weeks[1].MealTypes)
	assert.Equal(t, 2, weeks[1].ActiveDays)
}

func TestAggregateMealTypes(t *testing.T) {
	meals := []model.Meal{
		{MealType: "Sushi", Cost: 30},
		{MealType: "sushi", Cost: 10},
		{MealType: "cafe", Cost: 10},
		{MealType: "", Cost: 0},
	}

	types := AggregateMealTypes(meals)
	require.Len(t, types, 3)
	assert.Equal(t, "sushi", types[0].MealType)
	assert.Equal(t, 2, types[0].Meals)
	assert.InDelta(t, 80.0, types[0].SharePercent, 1e-9)
	assert.Equal(t, "other", types[2].MealType)
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("june.yaml", "meals:\n  - {type: ramen, cost: 14, date: 2025-06-03}\n")
	write("may.yml", "meals:\n  - {type: pizza, cost: 20, date: 2025-05-30}\n  - {type: '', cost: 1, date: 2025-05-30}\n")
	write("broken.yaml", "meals: [unterminated\n")

	var calls int
	result, err := Load(dir, "me", func(_, _ int) { calls++ })
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalFiles)
	assert.Equal(t, 2, result.ParsedFiles)
	assert.Equal(t, 1, result.FileErrors)
	assert.Equal(t, 1, result.ParseErrors)
	assert.Equal(t, 3, calls)
	require.Len(t, result.Meals, 2)
	assert.Equal(t, "pizza", result.Meals[0].MealType, "sorted by date")
	assert.Equal(t, "me", result.Meals[1].UserID)
}
