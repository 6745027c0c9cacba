package config

import (
	"fmt"

	"github.com/theirongolddev/savor/internal/setup"
)

// Store persists completed setup values into a config file.
type Store struct {
	path string
}

// NewStore returns a Store writing to path. An empty path means the default location.
func NewStore(path string) Store {
	if path == "" {
		path = Path()
	}
	return Store{path: path}
}

// ApplySetup implements setup.Sink.
func (s Store) ApplySetup(r setup.Result) error {
	cfg, err := LoadFileFrom(s.path)
	if err != nil {
		return err
	}

	completed := r.CompletedAt
	cfg.Budget.WeeklyCapacity = r.WeeklyCapacity
	cfg.Budget.ExperiencePreferences = r.ExperiencePreferences
	cfg.Budget.CelebrateAchievements = r.CelebrateAchievements
	cfg.Budget.SetupCompletedAt = &completed

	if err := SaveTo(s.path, cfg); err != nil {
		return fmt.Errorf("saving setup: %w", err)
	}
	return nil
}
