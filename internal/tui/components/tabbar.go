package components

import (
	"strings"

	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Week", Key: 'w', KeyPos: 0},
	{Name: "Log", Key: 'l', KeyPos: 0},
	{Name: "Achievements", Key: 'a', KeyPos: 0},
	{Name: "History", Key: 'h', KeyPos: 0},
}

const tabSeparator = "  "

// tabLabel returns the plain text of a tab as rendered.
func tabLabel(tab Tab, active bool) string {
	if active || tab.KeyPos >= 0 {
		return tab.Name
	}
	return tab.Name + "[" + string(tab.Key) + "]"
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true).Render(tab.Name)
	}

	inactive := lipgloss.NewStyle().Foreground(t.TextMuted)
	key := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	if tab.KeyPos < 0 || tab.KeyPos >= len(tab.Name) {
		return inactive.Render(tab.Name) + key.Render("["+string(tab.Key)+"]")
	}
	return inactive.Render(tab.Name[:tab.KeyPos]) +
		key.Render(string(tab.Name[tab.KeyPos])) +
		inactive.Render(tab.Name[tab.KeyPos+1:])
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	bar := " " + strings.Join(parts, tabSeparator)
	return lipgloss.NewStyle().Width(width).Render(bar)
}

// TabAtX returns the tab index under column x of the tab bar, or -1.
func TabAtX(x, activeIdx int) int {
	pos := 1 // leading space
	for i, tab := range Tabs {
		w := len(tabLabel(tab, i == activeIdx))
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSeparator)
	}
	return -1
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
