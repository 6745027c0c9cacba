package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagLogNotes string
	flagLogDate  string
)

var logCmd = &cobra.Command{
	Use:   "log <type> <cost>",
	Short: "Log a dining experience",
	Example: `  savor log ramen 14.50
  savor log celebration 82 --notes "anniversary dinner" --date 2025-06-03`,
	Args: cobra.ExactArgs(2),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&flagLogNotes, "notes", "", "Free-form notes")
	logCmd.Flags().StringVar(&flagLogDate, "date", "", "When the meal happened (YYYY-MM-DD or RFC 3339, default now)")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mealType := strings.TrimSpace(args[0])
	if mealType == "" {
		return errors.New("meal type must not be empty")
	}
	cost, err := parseCostArg(args[1])
	if err != nil {
		return err
	}
	date, err := parseDateFlag(flagLogDate)
	if err != nil {
		return err
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	// Preview against the state before the meal lands.
	if err := s.refresh(ctx); err != nil {
		return err
	}
	impact := s.tracker.CalculateMealImpact(cost)

	meal, err := s.db.AddMeal(ctx, model.Meal{
		UserID:   cfg.General.UserID,
		MealType: mealType,
		Cost:     cost,
		Date:     date,
		Notes:    flagLogNotes,
	})
	if err != nil {
		return err
	}
	slog.Debug("Logged meal", "id", meal.ID, "type", meal.MealType, "cost", meal.Cost)

	if err := s.refresh(ctx); err != nil {
		return err
	}
	unlocked, err := s.checkAchievements(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n  Logged %s for %s (%s)\n", meal.MealType, cli.FormatCost(meal.Cost), cli.FormatDate(meal.Date))
	if cfg.Preferences() != nil {
		fmt.Printf("  %s\n", impact.Message)
	}
	fmt.Println()
	fmt.Print(cli.RenderWeek(s.tracker.State()))
	printUnlocked(unlocked)
	return nil
}

func parseCostArg(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cost %q", s)
	}
	if !model.ValidCost(v) {
		return 0, fmt.Errorf("cost must be a non-negative amount, got %s", s)
	}
	return v, nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			if layout == "2006-01-02" {
				t = t.Add(12 * time.Hour)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}
