// Package config loads and saves the savor TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/pipeline"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all savor configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	UserID    string `toml:"user_id"`
	DBPath    string `toml:"db_path,omitempty"`
	WeekStart string `toml:"week_start"`
}

// BudgetConfig holds the weekly dining budget and the values the setup wizard collects.
type BudgetConfig struct {
	WeeklyCapacity        float64    `toml:"weekly_capacity"`
	TargetExperiences     int        `toml:"target_experiences,omitempty"`
	MealFrequencyPerDay   int        `toml:"meal_frequency_per_day"`
	BudgetLevel           int        `toml:"budget_level"`
	ExperiencePreferences []string   `toml:"experience_preferences"`
	CelebrateAchievements bool       `toml:"celebrate_achievements"`
	SetupCompletedAt      *time.Time `toml:"setup_completed_at,omitempty"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	Interval     string `toml:"interval"`
	EventsBuffer int    `toml:"events_buffer"`
	RolloverCron string `toml:"rollover_cron"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	user := os.Getenv("USER")
	if user == "" {
		user = "default"
	}
	return Config{
		General: GeneralConfig{
			UserID:    user,
			WeekStart: "monday",
		},
		Budget: BudgetConfig{
			MealFrequencyPerDay:   1,
			BudgetLevel:           2,
			CelebrateAchievements: true,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8788",
			Interval:     "30s",
			EventsBuffer: 200,
			RolloverCron: "0 0 0 * * *",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "savor")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "savor")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func LoadFrom(path string) (Config, error) {
	cfg, err := LoadFileFrom(path)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads the default config file as stored, without environment
// overrides. Use it before modifying and saving the file.
func LoadFile() (Config, error) {
	return LoadFileFrom(Path())
}

// LoadFileFrom is LoadFile for an explicit path.
func LoadFileFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// LoadEnv reads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SAVOR_USER_ID"); v != "" {
		cfg.General.UserID = v
	}
	if v := os.Getenv("SAVOR_DB_PATH"); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv("SAVOR_WEEKLY_CAPACITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && model.ValidCost(f) {
			cfg.Budget.WeeklyCapacity = f
		}
	}
}

// DBPath returns the configured meal database path or the default one.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	return pipeline.DBPath()
}

// WeekStart returns the configured first day of the tracked week.
func (c Config) WeekStart() time.Weekday {
	return pipeline.ParseWeekday(c.General.WeekStart)
}

// DaemonInterval parses the polling interval, falling back to 30s.
func (c Config) DaemonInterval() time.Duration {
	d, err := time.ParseDuration(c.Daemon.Interval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Preferences derives the budget engine's preferences, or nil when no weekly
// budget has been configured yet.
func (c Config) Preferences() *model.UserPreferences {
	if c.Budget.WeeklyCapacity <= 0 && c.Budget.SetupCompletedAt == nil {
		return nil
	}
	return &model.UserPreferences{
		WeeklyBudget:        c.Budget.WeeklyCapacity,
		MealFrequencyPerDay: c.Budget.MealFrequencyPerDay,
		BudgetLevel:         c.Budget.BudgetLevel,
	}
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.General.UserID == "" {
		return errors.New("general.user_id is required")
	}
	if c.Budget.WeeklyCapacity < 0 {
		return errors.New("budget.weekly_capacity must not be negative")
	}
	if c.Budget.MealFrequencyPerDay < 0 {
		return errors.New("budget.meal_frequency_per_day must not be negative")
	}
	if c.Budget.TargetExperiences < 0 {
		return errors.New("budget.target_experiences must not be negative")
	}
	return nil
}
