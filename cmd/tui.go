package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/theirongolddev/savor/internal/config"
	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/setup"
	"github.com/theirongolddev/savor/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// budgetSettings is the budget section shared between the dashboard's
// refreshes and its setup form.
type budgetSettings struct {
	mu     sync.Mutex
	budget config.BudgetConfig
}

func (b *budgetSettings) preferences() *model.UserPreferences {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := cfg
	c.Budget = b.budget
	return c.Preferences()
}

func (b *budgetSettings) ApplySetup(r setup.Result) error {
	if err := config.NewStore("").ApplySetup(r); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	completed := r.CompletedAt
	b.budget.WeeklyCapacity = r.WeeklyCapacity
	b.budget.ExperiencePreferences = r.ExperiencePreferences
	b.budget.CelebrateAchievements = r.CelebrateAchievements
	b.budget.SetupCompletedAt = &completed
	return nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	settings := &budgetSettings{budget: cfg.Budget}
	app := tui.NewApp(tui.Options{
		UserID:                cfg.General.UserID,
		Store:                 s.db,
		Tracker:               s.tracker,
		Engine:                s.engine,
		Preferences:           settings.preferences,
		WeekStart:             cfg.WeekStart(),
		SetupSink:             settings,
		ExperiencePreferences: cfg.Budget.ExperiencePreferences,
		CelebrateAchievements: cfg.Budget.CelebrateAchievements,
		SaveTheme:             saveTheme,
		NeedSetup:             cfg.Preferences() == nil,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

func saveTheme(name string) error {
	saved, err := config.LoadFile()
	if err != nil {
		return err
	}
	saved.Appearance.Theme = name
	return config.Save(saved)
}
