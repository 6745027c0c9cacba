package components

import (
	"strings"

	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. right is typically the
// data age; a non-empty errMsg replaces it.
func RenderStatusBar(width int, right string, loading bool, errMsg string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [r]efresh  [q]uit"
	if loading {
		left += "  " + lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render("refreshing…")
	}
	if errMsg != "" {
		right = lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface).Render(errMsg)
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
