// Package theme defines color themes for the savor dashboard.
//
// Besides the neutral surface and text roles, every theme names one color per
// budget state, so widgets can color a capacity bar or an impact preview
// without knowing which palette is active.
package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name string

	Surface      lipgloss.Color // card and bar backgrounds
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card, active tab underline
	TextDim      lipgloss.Color // hints, empty bar segments
	TextMuted    lipgloss.Color // labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Highlight    lipgloss.Color // key hints, experience bars

	// Budget states, from plenty of room left to over capacity.
	Excellent lipgloss.Color
	Under     lipgloss.Color
	Moderate  lipgloss.Color
	High      lipgloss.Color
	Over      lipgloss.Color

	Achievement lipgloss.Color // unlock banners and points

	// Form builds the matching huh theme for the setup form.
	Form func() *huh.Theme
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme, a warm paper-inspired dark palette.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Surface:      lipgloss.Color("#1C1B1A"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Highlight:    lipgloss.Color("#24837B"),
	Excellent:    lipgloss.Color("#A3B859"),
	Under:        lipgloss.Color("#879A39"),
	Moderate:     lipgloss.Color("#D0A215"),
	High:         lipgloss.Color("#DA702C"),
	Over:         lipgloss.Color("#D14D41"),
	Achievement:  lipgloss.Color("#CE5D97"),
	Form:         huh.ThemeCharm,
}

// TokyoNight is a cool blue and purple palette.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Surface:      lipgloss.Color("#24283B"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Highlight:    lipgloss.Color("#7DCFFF"),
	Excellent:    lipgloss.Color("#B9E87A"),
	Under:        lipgloss.Color("#9ECE6A"),
	Moderate:     lipgloss.Color("#E0AF68"),
	High:         lipgloss.Color("#FF9E64"),
	Over:         lipgloss.Color("#F7768E"),
	Achievement:  lipgloss.Color("#BB9AF7"),
	Form:         huh.ThemeDracula,
}

// Terminal sticks to the ANSI 16 colors for maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Surface:      lipgloss.Color("0"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Highlight:    lipgloss.Color("6"),
	Excellent:    lipgloss.Color("10"),
	Under:        lipgloss.Color("2"),
	Moderate:     lipgloss.Color("3"),
	High:         lipgloss.Color("11"),
	Over:         lipgloss.Color("1"),
	Achievement:  lipgloss.Color("5"),
	Form:         huh.ThemeBase16,
}

// All available themes, in the order the setup form offers them.
var All = []Theme{FlexokiDark, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the selectable theme names.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// FormTheme returns the huh theme matching the active palette.
func FormTheme() *huh.Theme {
	if Active.Form == nil {
		return huh.ThemeBase()
	}
	return Active.Form()
}
