// Package cmd implements the savor CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/savor/internal/achievement"
	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/config"
	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/store"
	"github.com/theirongolddev/savor/internal/tracker"
	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagDBPath  string
	flagUserID  string
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "savor",
	Short: "Weekly dining budget tracker",
	Long:  "Track what you spend on dining experiences against a weekly budget, and unlock achievements along the way.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		setupLogging()

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if flagDBPath != "" {
			loaded.General.DBPath = flagDBPath
		}
		if flagUserID != "" {
			loaded.General.UserID = flagUserID
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", config.Path(), err)
		}
		cfg = loaded
		theme.SetActive(cfg.Appearance.Theme)
		return nil
	},
	RunE: runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Meal database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagUserID, "user", "u", "", "User id (default from config)")
}

func setupLogging() {
	level := slog.LevelInfo
	switch {
	case flagVerbose:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// session bundles what most commands need: the open database, a tracker over
// it and an achievement engine restored from the unlock ledger.
type session struct {
	db      *store.DB
	tracker *tracker.Tracker
	engine  *achievement.Engine
}

func openSession(ctx context.Context) (*session, error) {
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	unlocks, err := db.LoadUnlocks(ctx, cfg.General.UserID)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	eng := achievement.NewEngine()
	eng.Restore(unlocks)

	tr := tracker.New(db,
		tracker.WithWeekStart(cfg.WeekStart()),
		tracker.WithTargetExperiences(cfg.Budget.TargetExperiences),
	)
	slog.Debug("Opened meal database", "path", cfg.DBPath(), "user", cfg.General.UserID, "unlocks", len(unlocks))
	return &session{db: db, tracker: tr, engine: eng}, nil
}

func (s *session) Close() {
	s.tracker.Close()
	_ = s.db.Close()
}

// refresh reloads the current week. A missing budget is not an error here:
// the state carries the message and callers print it.
func (s *session) refresh(ctx context.Context) error {
	err := s.tracker.Refresh(ctx, cfg.General.UserID, cfg.Preferences())
	if err != nil && !errors.Is(err, tracker.ErrPreferencesUnavailable) {
		return err
	}
	return nil
}

// checkAchievements evaluates the catalogue against the full history and
// persists anything newly unlocked.
func (s *session) checkAchievements(ctx context.Context) ([]model.Achievement, error) {
	meals, err := s.db.AllMeals(ctx, cfg.General.UserID)
	if err != nil {
		return nil, err
	}
	unlocked := s.engine.CheckAchievements(s.tracker.State(), meals)
	if len(unlocked) == 0 {
		return nil, nil
	}
	if err := s.db.SaveUnlocks(ctx, cfg.General.UserID, unlocked); err != nil {
		return nil, fmt.Errorf("saving unlocks: %w", err)
	}
	for _, a := range unlocked {
		slog.Info("Achievement unlocked", "id", a.ID, "points", a.Points)
	}
	return unlocked, nil
}

func printUnlocked(unlocked []model.Achievement) {
	if len(unlocked) == 0 || !cfg.Budget.CelebrateAchievements {
		return
	}
	fmt.Println()
	fmt.Print(cli.RenderUnlocked(unlocked))
}
