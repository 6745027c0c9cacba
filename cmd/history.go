package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagHistoryWeeks int
	flagHistoryMeals bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Weekly spending history and meal type breakdown",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryWeeks, "weeks", "n", 8, "Number of recent weeks to show")
	historyCmd.Flags().BoolVar(&flagHistoryMeals, "meals", false, "List individual meals with their ids")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	meals, err := s.db.AllMeals(ctx, cfg.General.UserID)
	if err != nil {
		return err
	}
	if len(meals) == 0 {
		fmt.Println("\n  No meals logged yet.")
		return nil
	}

	// Newest first.
	weeks := pipeline.AggregateWeeks(meals, cfg.WeekStart())
	if flagHistoryWeeks > 0 && len(weeks) > flagHistoryWeeks {
		weeks = weeks[:flagHistoryWeeks]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WEEKLY HISTORY  Last %d weeks", len(weeks))))
	fmt.Println()

	capacity := cfg.Budget.WeeklyCapacity
	costs := make([]float64, len(weeks))
	rows := make([][]string, 0, len(weeks))
	for i, w := range weeks {
		used := "-"
		if capacity > 0 {
			used = cli.FormatPercent(w.Cost / capacity)
		}
		delta := "-"
		if i+1 < len(weeks) {
			delta = cli.FormatDelta(w.Cost, weeks[i+1].Cost)
		}
		rows = append(rows, []string{
			cli.FormatWeekRange(w.WeekStart),
			cli.FormatNumber(int64(w.Meals)),
			cli.FormatNumber(int64(w.MealTypes)),
			cli.FormatNumber(int64(w.ActiveDays)),
			cli.FormatCost(w.Cost),
			delta,
			used,
		})
		costs[len(weeks)-1-i] = w.Cost
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Week", "Meals", "Types", "Days", "Spent", "vs prev", "Budget"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Trend %s\n", cli.RenderSparkline(costs))

	types := pipeline.AggregateMealTypes(meals)
	typeRows := make([][]string, 0, len(types))
	for _, t := range types {
		typeRows = append(typeRows, []string{
			t.MealType,
			cli.FormatNumber(int64(t.Meals)),
			cli.FormatCost(t.Cost),
			fmt.Sprintf("%.1f%%", t.SharePercent),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By meal type",
		Headers: []string{"Type", "Meals", "Spent", "Share"},
		Rows:    typeRows,
	}))

	if flagHistoryMeals {
		mealRows := make([][]string, 0, len(meals))
		for i := len(meals) - 1; i >= 0; i-- {
			m := meals[i]
			mealRows = append(mealRows, []string{
				cli.FormatDate(m.Date), m.MealType, cli.FormatCost(m.Cost), m.Notes, m.ID,
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Meals",
			Headers: []string{"Date", "Type", "Cost", "Notes", "ID"},
			Rows:    mealRows,
		}))
	}
	return nil
}
