package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/savor/internal/model"
)

func TestLooksNumeric(t *testing.T) {
	tests := map[string]bool{
		"$1,234.50": true,
		"-$5.00":    true,
		"+$2.00":    true,
		"42.0%":     true,
		"17":        true,
		"ramen":     false,
		"$":         false,
		"locked":    false,
	}
	for in, want := range tests {
		if got := looksNumeric(in); got != want {
			t.Errorf("looksNumeric(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNumericColumns(t *testing.T) {
	cols := numericColumns([][]string{
		{"ramen", "$14.00", "-", "with Sam"},
		{"tacos", "$9.00", "12.5%", ""},
	})
	if !cols[1] || !cols[2] {
		t.Errorf("amount and percent columns should be numeric: %v", cols)
	}
	if cols[0] || cols[3] {
		t.Errorf("text columns should not be numeric: %v", cols)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "By meal type",
		Headers: []string{"Type", "Spent"},
		Rows:    [][]string{{"ramen", "$14.00"}, {"tacos", "$9.00"}},
	})
	for _, want := range []string{"By meal type", "Type", "Spent", "ramen", "$14.00", "tacos"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable output missing %q:\n%s", want, out)
		}
	}
	if RenderTable(Table{}) != "" {
		t.Error("empty table should render nothing")
	}
}

func TestRenderWeek_ShowsOverage(t *testing.T) {
	out := RenderWeek(model.WeeklyInvestmentState{
		WeekStartDate:     time.Date(2025, time.June, 2, 0, 0, 0, 0, time.Local),
		WeeklyCapacity:    100,
		CurrentSpent:      130,
		ExperiencesLogged: 4,
		TargetExperiences: 7,
	})
	if !strings.Contains(out, "over by $30.00") {
		t.Errorf("RenderWeek should report the overage:\n%s", out)
	}
	if !strings.Contains(out, "4 / 7") {
		t.Errorf("RenderWeek should show experiences:\n%s", out)
	}
}

func TestRenderUnlocked(t *testing.T) {
	out := RenderUnlocked([]model.Achievement{{Title: "First Experience", Points: 10}})
	if !strings.Contains(out, "First Experience") || !strings.Contains(out, "+10 pts") {
		t.Errorf("RenderUnlocked = %q", out)
	}
}
