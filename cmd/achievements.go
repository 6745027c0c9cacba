package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/savor/internal/cli"

	"github.com/spf13/cobra"
)

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "List achievements, points and level",
	RunE:    runAchievements,
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

func runAchievements(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	// Re-evaluate so meals added by import count without a separate log.
	if err := s.refresh(ctx); err != nil {
		return err
	}
	unlocked, err := s.checkAchievements(ctx)
	if err != nil {
		return err
	}
	printUnlocked(unlocked)

	state := s.engine.State()
	progress := s.engine.Progress()

	fmt.Println()
	fmt.Println(cli.RenderTitle("ACHIEVEMENTS"))
	fmt.Println()

	rows := make([][]string, 0, len(state.AvailableAchievements))
	for _, a := range state.AvailableAchievements {
		status := "locked"
		if a.IsUnlocked && a.UnlockedAt != nil {
			status = "unlocked " + cli.FormatSince(*a.UnlockedAt)
		}
		rows = append(rows, []string{
			a.Title,
			cli.FormatLabel(string(a.Category)),
			fmt.Sprintf("%d", a.Points),
			status,
			a.Description,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Achievement", "Category", "Points", "Status", "How"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Level: %s  (%d pts, %d/%d unlocked)\n",
		progress.Current, state.TotalPoints, len(state.UnlockedAchievements), len(state.AvailableAchievements))
	if progress.Next != "" {
		fmt.Printf("  %s %d pts to %s\n",
			cli.RenderProgressBar(progress.Fraction, 20, cli.ColorPurple), progress.PointsToNext, progress.Next)
	}
	return nil
}
