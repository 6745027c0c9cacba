package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/config"
	"github.com/theirongolddev/savor/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    User:        %s\n", cfg.General.UserID)
	fmt.Printf("    Database:    %s\n", cfg.DBPath())
	fmt.Printf("    Week starts: %s\n", cfg.WeekStart())
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.WeeklyCapacity > 0 {
		fmt.Printf("    Weekly capacity:   %s\n", cli.FormatCost(cfg.Budget.WeeklyCapacity))
	} else {
		fmt.Println("    Weekly capacity:   not set")
	}
	if cfg.Budget.TargetExperiences > 0 {
		fmt.Printf("    Target per week:   %d\n", cfg.Budget.TargetExperiences)
	} else {
		fmt.Printf("    Target per week:   %d (%d per day)\n", cfg.Budget.MealFrequencyPerDay*7, cfg.Budget.MealFrequencyPerDay)
	}
	if len(cfg.Budget.ExperiencePreferences) > 0 {
		fmt.Printf("    Experiences:       %s\n", strings.Join(cfg.Budget.ExperiencePreferences, ", "))
	}
	fmt.Printf("    Celebrations:      %v\n", cfg.Budget.CelebrateAchievements)
	if cfg.Budget.SetupCompletedAt != nil {
		fmt.Printf("    Setup completed:   %s\n", cli.FormatSince(*cfg.Budget.SetupCompletedAt))
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %s\n", cfg.DaemonInterval())
	fmt.Printf("    Rollover: %s\n", cfg.Daemon.RolloverCron)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if db, err := store.Open(cfg.DBPath()); err == nil {
		if n, err := db.MealCount(ctx, cfg.General.UserID); err == nil {
			fmt.Printf("  %s meals logged.\n", cli.FormatNumber(int64(n)))
		}
		_ = db.Close()
	}
	fmt.Println("  Run `savor setup` to reconfigure.")
	return nil
}
