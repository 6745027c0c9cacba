package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/savor/internal/store"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <meal-id>",
	Short: "Delete a logged meal (ids are listed by `savor history --meals`)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.db.DeleteMeal(ctx, cfg.General.UserID, args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no meal with id %s for user %s", args[0], cfg.General.UserID)
		}
		return err
	}
	fmt.Printf("  Deleted meal %s\n", args[0])
	return nil
}
