package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/savor/internal/model"
)

func TestFormatCost(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{4.5, "$4.50"},
		{1234.5, "$1,234.50"},
		{-5, "-$5.00"},
	}
	for _, tt := range tests {
		if got := FormatCost(tt.in); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1200); got != "-1,200" {
		t.Errorf("FormatNumber negative = %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(30, 10); got != "+$20.00" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta(10, 30); got != "-$20.00" {
		t.Errorf("FormatDelta down = %q", got)
	}
}

func TestFormatLabel(t *testing.T) {
	if got := FormatLabel("very_high"); got != "Very High" {
		t.Errorf("FormatLabel = %q", got)
	}
	if got := FormatImpactLevel(model.UsageHigh, true); got != "Over Budget" {
		t.Errorf("FormatImpactLevel exceeds = %q", got)
	}
}

func TestFormatSince(t *testing.T) {
	if got := FormatSince(time.Time{}); got != "never" {
		t.Errorf("FormatSince zero = %q", got)
	}
	if got := FormatSince(time.Now().Add(-3 * time.Minute)); !strings.Contains(got, "minutes ago") {
		t.Errorf("FormatSince = %q", got)
	}
}

func TestFormatWeekRange(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	if got := FormatWeekRange(start); got != "Jun 2 - Jun 8" {
		t.Errorf("FormatWeekRange = %q", got)
	}
	if got := FormatDayOfWeek(time.Wednesday); got != "Wed" {
		t.Errorf("FormatDayOfWeek = %q", got)
	}
}

func TestFormatExperiences(t *testing.T) {
	if got := FormatExperiences(3, 7); got != "3 / 7" {
		t.Errorf("FormatExperiences = %q", got)
	}
	if got := FormatExperiences(3, 0); got != "3" {
		t.Errorf("FormatExperiences no target = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{0, 5, 10})
	if got != "▁▄█" {
		t.Errorf("RenderSparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("RenderSparkline(nil) should be empty")
	}
}

func TestRenderImpact_IncludesMessage(t *testing.T) {
	out := RenderImpact(model.InvestmentImpact{
		MealCost:    25,
		ImpactLevel: model.UsageModerate,
		Message:     "Great balance!",
	})
	if !strings.Contains(out, "Great balance!") || !strings.Contains(out, "$25.00") {
		t.Errorf("RenderImpact output missing fields:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if RenderTable(Table{}) != "" {
		t.Error("empty table should render nothing")
	}
}
