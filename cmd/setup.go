package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/config"
	"github.com/theirongolddev/savor/internal/setup"
	"github.com/theirongolddev/savor/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagSetupCapacity    float64
	flagSetupPrefs       []string
	flagSetupNoCelebrate bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set your weekly dining budget",
	Long: `Set your weekly dining budget and the experiences you enjoy.

Without flags an interactive form runs. Pass --capacity and --prefs to
configure non-interactively.`,
	Example: "  savor setup --capacity 250 --prefs fine_dining,street_food",
	RunE:    runSetup,
}

func init() {
	setupCmd.Flags().Float64Var(&flagSetupCapacity, "capacity", 0, "Weekly dining capacity")
	setupCmd.Flags().StringSliceVar(&flagSetupPrefs, "prefs", nil, "Experience preferences ("+experienceKeys()+")")
	setupCmd.Flags().BoolVar(&flagSetupNoCelebrate, "no-celebrate", false, "Do not celebrate unlocked achievements")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	var (
		values    setup.Values
		themeName = cfg.Appearance.Theme
	)

	if cmd.Flags().Changed("capacity") || cmd.Flags().Changed("prefs") {
		values = setup.Values{
			WeeklyCapacity:        flagSetupCapacity,
			ExperiencePreferences: flagSetupPrefs,
			CelebrateAchievements: !flagSetupNoCelebrate,
		}
	} else {
		v, name, err := tui.RunSetupForm(
			cfg.Budget.WeeklyCapacity,
			cfg.Budget.ExperiencePreferences,
			cfg.Budget.CelebrateAchievements,
			cfg.Appearance.Theme,
		)
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
		values, themeName = v, name
	}

	wizard := setup.New(config.NewStore(""))
	res, err := wizard.Submit(values)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if themeName != cfg.Appearance.Theme {
		if err := saveTheme(themeName); err != nil {
			return fmt.Errorf("saving theme: %w", err)
		}
	}

	fmt.Println()
	fmt.Printf("  Weekly capacity: %s\n", cli.FormatCost(res.WeeklyCapacity))
	fmt.Printf("  Experiences:     %s\n", strings.Join(res.ExperiencePreferences, ", "))
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `savor setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func experienceKeys() string {
	keys := make([]string, 0, len(setup.ExperienceOptions))
	for _, o := range setup.ExperienceOptions {
		keys = append(keys, o.Key)
	}
	return strings.Join(keys, ", ")
}
