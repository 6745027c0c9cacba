// Package store provides SQLite-backed persistence for meals and achievement unlocks.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/savor/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a meal id has no row.
var ErrNotFound = errors.New("store: not found")

// DB is the meal history database.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening meal db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// AddMeal inserts a meal, assigning an id when it has none.
func (s *DB) AddMeal(ctx context.Context, m model.Meal) (model.Meal, error) {
	if !model.ValidCost(m.Cost) {
		return m, fmt.Errorf("invalid meal cost %v", m.Cost)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO meals
		(meal_id, user_id, meal_type, cost, occurred_at_ns, notes, source_file, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, ?)`,
		m.ID, m.UserID, m.MealType, m.Cost, m.Date.UnixNano(), m.Notes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return m, fmt.Errorf("inserting meal: %w", err)
	}
	return m, nil
}

// FileInfo holds the tracked mtime and size for an imported file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all imported files.
func (s *DB) GetTrackedFiles(ctx context.Context) (map[string]FileInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// ReplaceFileMeals stores the meals parsed from one import file, replacing
// whatever that file contributed before, and updates its tracking info.
// A meal whose id already belongs to another file, user or a logged meal is
// left untouched; the conflicting ids are returned.
func (s *DB) ReplaceFileMeals(ctx context.Context, filePath string, meals []model.Meal, fi FileInfo) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM meals WHERE source_file = ?", filePath); err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO meals
		(meal_id, user_id, meal_type, cost, occurred_at_ns, notes, source_file, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(meal_id) DO NOTHING`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stmt.Close() }()

	var conflicts []string
	now := time.Now().UTC().Format(time.RFC3339)
	for _, m := range meals {
		id := m.ID
		if id == "" {
			id = uuid.NewString()
		}
		res, err := stmt.ExecContext(ctx,
			id, m.UserID, m.MealType, m.Cost, m.Date.UnixNano(), m.Notes, filePath, now,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting meal %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			conflicts = append(conflicts, id)
		}
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, filePath, fi.MtimeNs, fi.SizeBytes)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return conflicts, nil
}

// GetMealsByDateRange returns a user's meals with start <= date < end, oldest first.
func (s *DB) GetMealsByDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Meal, error) {
	return s.queryMeals(ctx, `SELECT meal_id, user_id, meal_type, cost, occurred_at_ns, notes
		FROM meals WHERE user_id = ? AND occurred_at_ns >= ? AND occurred_at_ns < ?
		ORDER BY occurred_at_ns`, userID, start.UnixNano(), end.UnixNano())
}

// AllMeals returns every meal for a user, oldest first.
func (s *DB) AllMeals(ctx context.Context, userID string) ([]model.Meal, error) {
	return s.queryMeals(ctx, `SELECT meal_id, user_id, meal_type, cost, occurred_at_ns, notes
		FROM meals WHERE user_id = ? ORDER BY occurred_at_ns`, userID)
}

func (s *DB) queryMeals(ctx context.Context, query string, args ...any) ([]model.Meal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var meals []model.Meal
	for rows.Next() {
		var m model.Meal
		var ns int64
		var notes sql.NullString
		if err := rows.Scan(&m.ID, &m.UserID, &m.MealType, &m.Cost, &ns, &notes); err != nil {
			return nil, err
		}
		m.Date = time.Unix(0, ns)
		if notes.Valid {
			m.Notes = notes.String
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// DeleteMeal removes one meal.
func (s *DB) DeleteMeal(ctx context.Context, userID, mealID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM meals WHERE user_id = ? AND meal_id = ?", userID, mealID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MealCount returns the number of meals stored for a user.
func (s *DB) MealCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM meals WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

// SaveUnlock appends an achievement unlock. Re-saving an id keeps the first timestamp.
func (s *DB) SaveUnlock(ctx context.Context, userID string, u model.Unlock) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO achievement_unlocks
		(user_id, achievement_id, unlocked_at) VALUES (?, ?, ?)`,
		userID, u.AchievementID, u.UnlockedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving unlock %s: %w", u.AchievementID, err)
	}
	return nil
}

// SaveUnlocks persists newly unlocked achievements.
func (s *DB) SaveUnlocks(ctx context.Context, userID string, achievements []model.Achievement) error {
	for _, a := range achievements {
		at := time.Now()
		if a.UnlockedAt != nil {
			at = *a.UnlockedAt
		}
		if err := s.SaveUnlock(ctx, userID, model.Unlock{AchievementID: a.ID, UnlockedAt: at}); err != nil {
			return err
		}
	}
	return nil
}

// LoadUnlocks returns a user's unlock ledger in unlock order.
func (s *DB) LoadUnlocks(ctx context.Context, userID string) ([]model.Unlock, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT achievement_id, unlocked_at
		FROM achievement_unlocks WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var unlocks []model.Unlock
	for rows.Next() {
		var u model.Unlock
		var at string
		if err := rows.Scan(&u.AchievementID, &at); err != nil {
			return nil, err
		}
		u.UnlockedAt, _ = time.Parse(time.RFC3339Nano, at)
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}
