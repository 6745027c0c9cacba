package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
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

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(buf.String())
}

// Bar is one labelled row of a HorizontalBars chart.
type Bar struct {
	Label string
	Value float64
	Note  string // rendered after the bar, e.g. a formatted amount
}

// HorizontalBars renders one bar per row, scaled to the largest value.
func HorizontalBars(bars []Bar, color lipgloss.Color, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, noteW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		noteW = max(noteW, lipgloss.Width(b.Note))
		peak = max(peak, b.Value)
	}
	barW := width - labelW - noteW - 3
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(color)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var sb strings.Builder
	for i, b := range bars {
		n := 0
		if peak > 0 {
			n = int(b.Value / peak * float64(barW))
		}
		if b.Value > 0 && n == 0 {
			n = 1
		}
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)))
		sb.WriteString(" ")
		sb.WriteString(barStyle.Render(strings.Repeat("█", n)))
		sb.WriteString(emptyStyle.Render(strings.Repeat("·", barW-n)))
		sb.WriteString(" ")
		sb.WriteString(noteStyle.Render(fmt.Sprintf("%*s", noteW, b.Note)))
		if i < len(bars)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WeekBars turns daily spend into bars ordered oldest day first.
func WeekBars(days []model.DailySpend, format func(float64) string) []Bar {
	bars := make([]Bar, 0, len(days))
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		bars = append(bars, Bar{
			Label: d.Date.Format("Mon 02"),
			Value: d.Cost,
			Note:  format(d.Cost),
		})
	}
	return bars
}
