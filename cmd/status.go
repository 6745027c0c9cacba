package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/savor/internal/cli"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show this week's dining budget",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.refresh(ctx); err != nil {
		return err
	}

	state := s.tracker.State()
	fmt.Println()
	fmt.Print(cli.RenderWeek(state))
	if state.HasError() && cfg.Preferences() == nil {
		fmt.Println()
		fmt.Println("  Run `savor setup` to set a weekly budget.")
	}

	ach := s.engine.State()
	if ach.TotalPoints > 0 {
		fmt.Println()
		fmt.Printf("  %s  %s pts\n", ach.CurrentLevel, cli.FormatNumber(int64(ach.TotalPoints)))
	}
	return nil
}
