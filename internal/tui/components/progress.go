package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForUsage returns green/yellow/orange/red for a capacity usage level.
func ColorForUsage(level model.UsageLevel) lipgloss.Color {
	t := theme.Active
	switch level {
	case model.UsageLow:
		return t.Under
	case model.UsageModerate:
		return t.Moderate
	case model.UsageHigh:
		return t.High
	default:
		return t.Over
	}
}

// ColorForGuidance maps the weekly guidance label to a color.
func ColorForGuidance(level model.GuidanceLevel) lipgloss.Color {
	t := theme.Active
	switch level {
	case model.GuidanceExcellent:
		return t.Excellent
	case model.GuidanceGood:
		return t.Accent
	case model.GuidanceModerate:
		return t.Moderate
	default:
		return t.Over
	}
}

// ProgressBar renders a simple block bar with percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)
	filled := int(pct * float64(width))

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Highlight
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Bold(true)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	return b.String() + " " + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// CapacityBar renders a labeled bar colored by usage level. The bar is
// capped at full while the percentage shows the real ratio.
func CapacityBar(label string, ratio float64, level model.UsageLevel, labelW, barWidth int) string {
	t := theme.Active
	color := ColorForUsage(level)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		" " + bar.ViewAs(clamp01(ratio)) +
		" " + pctStyle.Render(fmt.Sprintf("%3.0f%%", ratio*100))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
