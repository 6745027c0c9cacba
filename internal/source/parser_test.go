package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeLog creates a temp YAML file and returns a DiscoveredFile for it.
func writeLog(t *testing.T, body string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "meals.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Name: "meals"}
}

func TestParseFile_Meals(t *testing.T) {
	df := writeLog(t, `
user: alice
meals:
  - type: italian
    cost: 42.5
    date: 2025-06-01T19:30:00Z
    notes: "  anniversary dinner "
  - type: cafe
    cost: 6
    date: 2025-06-02
`)

	result := ParseFile(df, "fallback")
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Meals) != 2 {
		t.Fatalf("Meals = %d, want 2", len(result.Meals))
	}

	first := result.Meals[0]
	if first.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", first.UserID)
	}
	if first.Notes != "anniversary dinner" {
		t.Errorf("Notes = %q, want trimmed", first.Notes)
	}
	want := time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)
	if !first.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", first.Date, want)
	}

	second := result.Meals[1]
	if second.Date.Location() != time.Local || second.Date.Day() != 2 {
		t.Errorf("date-only entry = %v, want local 2025-06-02", second.Date)
	}
}

func TestParseFile_DefaultUserAndDedup(t *testing.T) {
	df := writeLog(t, `
meals:
  - id: m1
    type: sushi
    cost: 30
    date: 2025-06-01
  - id: m1
    type: sushi
    cost: 35
    date: 2025-06-01
`)

	result := ParseFile(df, "bob")
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Meals) != 1 {
		t.Fatalf("Meals = %d, want 1 (dedup)", len(result.Meals))
	}
	if result.Meals[0].Cost != 35 {
		t.Errorf("Cost = %.2f, want 35 (last entry wins)", result.Meals[0].Cost)
	}
	if result.Meals[0].UserID != "bob" {
		t.Errorf("UserID = %q, want bob", result.Meals[0].UserID)
	}
}

func TestParseFile_InvalidEntries(t *testing.T) {
	df := writeLog(t, `
meals:
  - type: ""
    cost: 10
    date: 2025-06-01
  - type: tacos
    cost: -4
    date: 2025-06-01
  - type: tacos
    cost: .nan
    date: 2025-06-01
  - type: tacos
    cost: .inf
    date: 2025-06-01
  - type: tacos
    cost: 4
    date: not-a-date
  - type: tacos
    cost: 4
    date: 2025-06-03
`)

	result := ParseFile(df, "u")
	if result.ParseErrors != 5 {
		t.Errorf("ParseErrors = %d, want 5", result.ParseErrors)
	}
	if len(result.Meals) != 1 {
		t.Errorf("Meals = %d, want 1", len(result.Meals))
	}
}

func TestParseFile_MultipleDocuments(t *testing.T) {
	df := writeLog(t, `user: a
meals:
  - {type: ramen, cost: 14, date: 2025-06-01}
---
user: b
meals:
  - {type: pizza, cost: 20, date: 2025-06-02}
`)

	result := ParseFile(df, "")
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Meals) != 2 {
		t.Fatalf("Meals = %d, want 2", len(result.Meals))
	}
	if result.Meals[0].UserID != "a" || result.Meals[1].UserID != "b" {
		t.Errorf("users = %q,%q, want a,b", result.Meals[0].UserID, result.Meals[1].UserID)
	}
}

func TestParseFile_Missing(t *testing.T) {
	result := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.yaml")}, "")
	if result.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("meals: []\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if files[0].Name != "a" || files[1].Name != "b" {
		t.Errorf("names = %q,%q, want a,b", files[0].Name, files[1].Name)
	}

	missing, err := ScanDir(filepath.Join(dir, "missing"))
	if err != nil || missing != nil {
		t.Errorf("missing dir = %v, %v; want nil, nil", missing, err)
	}
}
