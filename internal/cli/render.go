package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/savor/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorPurple    = lipgloss.Color("#8B7EC8")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	achievementStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPurple)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table is a bordered text table for CLI output. The first column is
// left-aligned; later columns holding numbers or amounts are right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	rightAligned := numericColumns(t.Rows)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		BorderRow(false).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := valueStyle
			if row == table.HeaderRow {
				style = headerStyle
			}
			style = style.Padding(0, 1)
			if row != table.HeaderRow && col > 0 && rightAligned[col] {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}
	b.WriteString(tbl.String())
	b.WriteString("\n")
	return b.String()
}

// numericColumns reports, per column, whether every non-empty cell reads as
// a number, an amount or a percentage.
func numericColumns(rows [][]string) map[int]bool {
	cols := make(map[int]bool)
	for _, row := range rows {
		for i, cell := range row {
			numeric, seen := cols[i]
			if seen && !numeric {
				continue
			}
			if cell == "" || cell == "-" {
				if !seen {
					cols[i] = true
				}
				continue
			}
			cols[i] = looksNumeric(cell)
		}
	}
	return cols
}

func looksNumeric(s string) bool {
	s = strings.TrimLeft(s, "+-$")
	s = strings.TrimRight(s, "%")
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ',' && r != '.' && r != '$' {
			return false
		}
	}
	return true
}

// ColorForUsage maps a usage level to its display color.
func ColorForUsage(level model.UsageLevel) lipgloss.Color {
	switch level {
	case model.UsageLow:
		return ColorGreen
	case model.UsageModerate:
		return ColorAccent
	case model.UsageHigh:
		return ColorYellow
	default:
		return ColorRed
	}
}

// RenderProgressBar renders a fraction as a colored text bar with a percentage.
func RenderProgressBar(frac float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if frac < 0 {
		frac = 0
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %s", bar, FormatPercent(frac))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderWeek renders the weekly capacity summary shown by `savor status`.
func RenderWeek(s model.WeeklyInvestmentState) string {
	var b strings.Builder
	usage := s.CapacityUsageLevel()

	b.WriteString(RenderTitle("Week of " + FormatWeekRange(s.WeekStartDate)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render(fmt.Sprintf("%-13s", label)), value)
	}
	row("Capacity", valueStyle.Render(FormatCost(s.WeeklyCapacity)))
	row("Spent", valueStyle.Render(FormatCost(s.CurrentSpent)))
	remaining := valueStyle.Render(FormatCost(s.RemainingCapacity))
	if s.WeeklyCapacity > 0 && s.CurrentSpent > s.WeeklyCapacity {
		remaining = warnStyle.Render(FormatCost(0) + " (over by " + FormatCost(s.CurrentSpent-s.WeeklyCapacity) + ")")
	}
	row("Remaining", remaining)
	row("Usage", RenderProgressBar(s.CapacityProgress(), 30, ColorForUsage(usage))+" "+
		lipgloss.NewStyle().Foreground(ColorForUsage(usage)).Render(FormatLabel(string(usage))))
	row("Guidance", headerStyle.Render(FormatLabel(string(s.InvestmentGuidanceLevel()))))
	row("Experiences", FormatExperiences(s.ExperiencesLogged, s.TargetExperiences))
	if s.TargetExperiences > 0 {
		row("", RenderProgressBar(s.ExperienceProgress(), 30, ColorAccent))
	}
	if s.HasError() {
		b.WriteString("\n  ")
		b.WriteString(warnStyle.Render(s.ErrorMessage))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderImpact renders the projected effect of a prospective meal.
func RenderImpact(imp model.InvestmentImpact) string {
	var b strings.Builder
	color := ColorForUsage(imp.ImpactLevel)
	if imp.ExceedsCapacity {
		color = ColorRed
	}
	levelStyle := lipgloss.NewStyle().Bold(true).Foreground(color)

	fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("Meal cost    "), valueStyle.Render(FormatCost(imp.MealCost)))
	fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("After meal   "), valueStyle.Render(FormatCost(imp.ProjectedSpent)))
	fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("Remaining    "), valueStyle.Render(FormatCost(imp.ProjectedRemaining)))
	fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("Impact       "), levelStyle.Render(FormatImpactLevel(imp.ImpactLevel, imp.ExceedsCapacity)))
	fmt.Fprintf(&b, "\n  %s\n", imp.Message)
	return b.String()
}

// RenderUnlocked renders a celebration line for each newly unlocked achievement.
func RenderUnlocked(unlocked []model.Achievement) string {
	var b strings.Builder
	for _, a := range unlocked {
		fmt.Fprintf(&b, "  %s %s %s\n",
			achievementStyle.Render("★ Achievement unlocked:"),
			valueStyle.Render(a.Title),
			mutedStyle.Render(fmt.Sprintf("(+%d pts)", a.Points)))
	}
	return b.String()
}
