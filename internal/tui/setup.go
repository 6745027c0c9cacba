package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/setup"
	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// customCapacity is the select value meaning "type an amount".
const customCapacity = 0.0

// setupValues holds the answers bound to the huh setup form.
type setupValues struct {
	capacityChoice float64
	customAmount   string
	experiences    []string
	celebrate      bool
	themeName      string
}

// newSetupValues pre-fills the form from the current settings.
func newSetupValues(capacity float64, prefs []string, celebrate bool, themeName string) setupValues {
	v := setupValues{
		capacityChoice: setup.DefaultWeeklyCapacity,
		experiences:    append([]string(nil), prefs...),
		celebrate:      celebrate,
		themeName:      themeName,
	}
	if capacity > 0 {
		v.capacityChoice = customCapacity
		v.customAmount = strconv.FormatFloat(capacity, 'f', -1, 64)
		for _, p := range setup.CapacityPresets {
			if p == capacity {
				v.capacityChoice = p
				v.customAmount = ""
			}
		}
	}
	if v.themeName == "" {
		v.themeName = theme.Active.Name
	}
	return v
}

// wizardValues converts the form answers into wizard input.
func (v setupValues) wizardValues() (setup.Values, error) {
	capacity := v.capacityChoice
	if capacity == customCapacity {
		parsed, err := parseAmount(v.customAmount)
		if err != nil {
			return setup.Values{}, err
		}
		capacity = parsed
	}
	return setup.Values{
		WeeklyCapacity:        capacity,
		ExperiencePreferences: v.experiences,
		CelebrateAchievements: v.celebrate,
	}, nil
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an amount", s)
	}
	if f <= 0 {
		return 0, errors.New("amount must be greater than zero")
	}
	return f, nil
}

func newSetupForm(vals *setupValues) *huh.Form {
	capacityOpts := make([]huh.Option[float64], 0, len(setup.CapacityPresets)+1)
	for _, p := range setup.CapacityPresets {
		capacityOpts = append(capacityOpts, huh.NewOption(cli.FormatCost(p)+" per week", p))
	}
	capacityOpts = append(capacityOpts, huh.NewOption("Custom amount", customCapacity))

	experienceOpts := make([]huh.Option[string], 0, len(setup.ExperienceOptions))
	for _, o := range setup.ExperienceOptions {
		experienceOpts = append(experienceOpts, huh.NewOption(o.Label, o.Key))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to savor").
				Description("Set a weekly dining budget and savor every meal within it.\nYou can rerun this anytime with [S] or `savor setup`."),
			huh.NewSelect[float64]().
				Title("Weekly dining capacity").
				Options(capacityOpts...).
				Value(&vals.capacityChoice),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Custom weekly capacity").
				Placeholder("250").
				Value(&vals.customAmount).
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),
		).WithHideFunc(func() bool { return vals.capacityChoice != customCapacity }),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which experiences do you enjoy?").
				Options(experienceOpts...).
				Value(&vals.experiences).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return errors.New("pick at least one")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Celebrate unlocked achievements?").
				Affirmative("Yes").
				Negative("No").
				Value(&vals.celebrate),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.themeName),
		),
	).WithTheme(theme.FormTheme()).WithShowHelp(true)
}

// RunSetupForm runs the setup form on its own, outside the dashboard, and
// returns the answers plus the chosen theme name.
func RunSetupForm(capacity float64, prefs []string, celebrate bool, themeName string) (setup.Values, string, error) {
	vals := newSetupValues(capacity, prefs, celebrate, themeName)
	if err := newSetupForm(&vals).Run(); err != nil {
		return setup.Values{}, "", err
	}
	wv, err := vals.wizardValues()
	if err != nil {
		return setup.Values{}, "", err
	}
	return wv, vals.themeName, nil
}
