// Package components provides reusable widgets for the savor dashboard.
package components

import (
	"strings"

	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const minCardWidth = 10

// LayoutRow splits totalWidth into n widths summing to exactly totalWidth.
// The remainder goes to the leftmost items.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// cardFrame is the rounded border shared by every card. outerWidth includes
// the border itself.
func cardFrame(outerWidth int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(max(outerWidth-2, minCardWidth)).
		Padding(0, 1)
}

// Metric is one labelled value shown in a metric card. Delta is an optional
// third line; Color tints the value when set.
type Metric struct {
	Label string
	Value string
	Delta string
	Color lipgloss.Color
}

// MetricCard renders m in a small bordered card.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active
	valueColor := t.TextPrimary
	if m.Color != "" {
		valueColor = m.Color
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label),
		lipgloss.NewStyle().Foreground(valueColor).Bold(true).Render(m.Value),
	}
	if m.Delta != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.TextDim).Render(m.Delta))
	}
	return cardFrame(outerWidth).Render(strings.Join(lines, "\n"))
}

// MetricCardRow lays metric cards side by side across totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// ContentCard renders body in a bordered card under an optional title.
func ContentCard(title, body string, outerWidth int) string {
	if title != "" {
		heading := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Bold(true).Render(title)
		body = heading + "\n" + body
	}
	return cardFrame(outerWidth).Render(body)
}

// CardRow joins rendered cards horizontally, filling the space under
// shorter cards with the surface color.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	height := 0
	for _, c := range cards {
		height = max(height, lipgloss.Height(c))
	}
	fill := lipgloss.NewStyle().Background(theme.Active.Surface).Height(height)
	padded := make([]string, len(cards))
	for i, c := range cards {
		padded[i] = fill.Width(lipgloss.Width(c)).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth is the text width inside a card of the given outer width,
// after border and padding.
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, minCardWidth)
}
