package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/savor/internal/cli"

	"github.com/spf13/cobra"
)

var impactCmd = &cobra.Command{
	Use:   "impact <cost>",
	Short: "Preview how a meal would affect this week's budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runImpact,
}

func init() {
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cost, err := parseCostArg(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.refresh(ctx); err != nil {
		return err
	}
	if cfg.Preferences() == nil {
		fmt.Println("\n  No weekly budget set. Run `savor setup` first.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("Meal impact"))
	fmt.Println()
	fmt.Print(cli.RenderImpact(s.tracker.CalculateMealImpact(cost)))
	return nil
}
