package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	widths := LayoutRow(100, 3)
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != 100 {
		t.Fatalf("LayoutRow widths sum to %d, want 100", sum)
	}
	if widths[0] != 34 || widths[2] != 33 {
		t.Fatalf("LayoutRow = %v, want remainder on first item", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}

	// Padding below the short card must still carry background styling.
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("Line %d has no ANSI codes", i)
		}
	}
}

func TestColorForUsage(t *testing.T) {
	theme.SetActive("flexoki-dark")
	tt := theme.Active
	cases := map[model.UsageLevel]lipgloss.Color{
		model.UsageLow:      tt.Under,
		model.UsageModerate: tt.Moderate,
		model.UsageHigh:     tt.High,
		model.UsageVeryHigh: tt.Over,
	}
	for level, want := range cases {
		if got := ColorForUsage(level); got != want {
			t.Errorf("ColorForUsage(%s) = %s, want %s", level, got, want)
		}
	}
}

func TestCapacityBarShowsRealRatio(t *testing.T) {
	out := CapacityBar("Used", 1.25, model.UsageVeryHigh, 6, 20)
	if !strings.Contains(out, "125%") {
		t.Fatalf("CapacityBar over capacity should show 125%%, got %q", out)
	}
}

func TestHorizontalBars(t *testing.T) {
	out := HorizontalBars([]Bar{
		{Label: "Mon", Value: 10, Note: "$10"},
		{Label: "Tue", Value: 0, Note: "$0"},
	}, theme.Active.Accent, 30)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("HorizontalBars lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "█") || strings.Contains(lines[1], "█") {
		t.Fatalf("unexpected bars:\n%s", out)
	}
	if HorizontalBars(nil, theme.Active.Accent, 30) != "" {
		t.Fatal("empty bars should render nothing")
	}
}

func TestTabAtX(t *testing.T) {
	for active := range Tabs {
		pos := 1
		for i, tab := range Tabs {
			w := len(tabLabel(tab, i == active))
			if got := TabAtX(pos+w/2, active); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + len(tabSeparator)
		}
	}
	if TabAtX(0, 0) != -1 {
		t.Fatal("leading space should not hit a tab")
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('a') != 2 {
		t.Fatalf("TabIdxByKey('a') = %d, want 2", TabIdxByKey('a'))
	}
	if TabIdxByKey('z') != -1 {
		t.Fatal("unknown key should return -1")
	}
}

func TestMetricCardRowFillsWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Capacity", Value: "$200.00"},
		{Label: "Spent", Value: "$80.00", Delta: "40.0% used"},
		{Label: "Remaining", Value: "$120.00", Color: theme.Active.Under},
	}, 90)
	if w := lipgloss.Width(row); w != 90 {
		t.Fatalf("MetricCardRow width = %d, want 90", w)
	}
	if !strings.Contains(row, "40.0% used") {
		t.Fatal("MetricCardRow dropped the delta line")
	}
	if MetricCardRow(nil, 90) != "" {
		t.Fatal("MetricCardRow(nil) should be empty")
	}
}
