// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/savor/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatCost formats a dollar amount with thousands separators and cents.
// e.g., 1234.5 -> "$1,234.50", -5 -> "-$5.00"
func FormatCost(cost float64) string {
	if cost < 0 {
		return "-" + FormatCost(-cost)
	}
	return "$" + humanize.FormatFloat("#,###.##", cost)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats a cost delta with sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatCost(delta)
	}
	return "-" + FormatCost(-delta)
}

// FormatSince renders a timestamp relative to now, e.g. "3 minutes ago".
func FormatSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatDayOfWeek returns a 3-letter day abbreviation.
func FormatDayOfWeek(d time.Weekday) string {
	return d.String()[:3]
}

// FormatDate renders a calendar day, e.g. "Mon Jun 2".
func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// FormatWeekRange renders the span of a tracked week, e.g. "Jun 2 - Jun 8".
func FormatWeekRange(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return start.Format("Jan 2") + " - " + end.Format("Jan 2")
}

// FormatExperiences renders logged-versus-target experience counts.
func FormatExperiences(logged, target int) string {
	if target <= 0 {
		return strconv.Itoa(logged)
	}
	return fmt.Sprintf("%d / %d", logged, target)
}

// FormatLabel turns a snake_case identifier into title words.
// e.g., "very_high" -> "Very High"
func FormatLabel(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// FormatImpactLevel returns the display label for an impact level.
func FormatImpactLevel(level model.UsageLevel, exceeds bool) string {
	if exceeds {
		return "Over Budget"
	}
	return FormatLabel(string(level))
}
