// Package source discovers and parses YAML meal-log files for bulk import.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/savor/internal/model"

	"gopkg.in/yaml.v3"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseResult holds the output of parsing a single meal-log file.
type ParseResult struct {
	Meals       []model.Meal
	ParseErrors int
	Err         error
}

// ParseFile reads a meal-log file. A file may contain several YAML documents.
// Entries sharing an id are deduplicated, keeping the last one.
// Entries with a missing date, a negative cost or no type are counted as parse errors and skipped.
func ParseFile(df DiscoveredFile, defaultUser string) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var (
		result ParseResult
		byID   = make(map[string]int)
	)

	dec := yaml.NewDecoder(f)
	for {
		var doc RawLog
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ParseResult{Err: fmt.Errorf("decoding %s: %w", df.Path, err)}
		}

		user := doc.User
		if user == "" {
			user = defaultUser
		}

		for _, raw := range doc.Meals {
			m, ok := toMeal(raw, user)
			if !ok {
				result.ParseErrors++
				continue
			}
			if m.ID != "" {
				if idx, seen := byID[m.ID]; seen {
					result.Meals[idx] = m
					continue
				}
				byID[m.ID] = len(result.Meals)
			}
			result.Meals = append(result.Meals, m)
		}
	}

	return result
}

func toMeal(raw RawMeal, user string) (model.Meal, bool) {
	mealType := strings.TrimSpace(raw.Type)
	if mealType == "" || !model.ValidCost(raw.Cost) {
		return model.Meal{}, false
	}
	date, ok := parseDate(raw.Date)
	if !ok {
		return model.Meal{}, false
	}
	return model.Meal{
		ID:       strings.TrimSpace(raw.ID),
		UserID:   user,
		MealType: mealType,
		Cost:     raw.Cost,
		Date:     date,
		Notes:    strings.TrimSpace(raw.Notes),
	}, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
