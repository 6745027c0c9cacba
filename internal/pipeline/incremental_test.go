package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/savor/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_SkipsUnchangedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(t.TempDir(), "meals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logPath := filepath.Join(dir, "june.yaml")
	require.NoError(t, os.WriteFile(logPath, []byte(
		"user: ana\nmeals:\n  - {id: a1, type: ramen, cost: 14, date: 2025-06-03}\n  - {id: a2, type: tacos, cost: 9, date: 2025-06-04}\n",
	), 0o600))

	first, err := Import(ctx, dir, "me", db, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)
	assert.Equal(t, 0, first.Unchanged)
	assert.Len(t, first.Meals, 2)

	second, err := Import(ctx, dir, "me", db, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Unchanged)

	// Rewriting the file replaces its meals instead of duplicating them.
	require.NoError(t, os.WriteFile(logPath, []byte(
		"user: ana\nmeals:\n  - {id: a1, type: ramen, cost: 16, date: 2025-06-03}\n",
	), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(logPath, later, later))

	third, err := Import(ctx, dir, "me", db, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Imported)

	meals, err := db.AllMeals(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.InDelta(t, 16.0, meals[0].Cost, 1e-9)
}

func TestImport_CountsTakenIDsAsParseErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(t.TempDir(), "meals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ana.yaml"), []byte(
		"user: ana\nmeals:\n  - {id: m1, type: ramen, cost: 14, date: 2025-06-03}\n",
	), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.yaml"), []byte(
		"user: bob\nmeals:\n  - {id: m1, type: tacos, cost: 90, date: 2025-06-04}\n  - {id: m2, type: tacos, cost: 9, date: 2025-06-04}\n",
	), 0o600))

	result, err := Import(ctx, dir, "me", db, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ParseErrors)
	assert.Len(t, result.Meals, 2)

	ana, err := db.AllMeals(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, ana, 1)
	assert.InDelta(t, 14.0, ana[0].Cost, 1e-9)
}

func TestImport_EmptyDir(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "meals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	result, err := Import(context.Background(), t.TempDir(), "me", db, nil)
	require.NoError(t, err)
	assert.Zero(t, result.TotalFiles)
}
