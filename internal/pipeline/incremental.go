package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/source"
	"github.com/theirongolddev/savor/internal/store"
)

// ImportStore is the part of the meal database an import writes to.
type ImportStore interface {
	GetTrackedFiles(ctx context.Context) (map[string]store.FileInfo, error)
	ReplaceFileMeals(ctx context.Context, filePath string, meals []model.Meal, fi store.FileInfo) ([]string, error)
}

// ImportResult extends LoadResult with file-tracker statistics.
type ImportResult struct {
	LoadResult
	Unchanged int // files skipped because mtime and size match the tracker
	Imported  int // files (re)parsed and written
}

// Import discovers meal-log files under path, parses only the files whose
// mtime or size changed since the last import, and replaces their meals in db.
func Import(ctx context.Context, path, defaultUser string, db ImportStore, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &ImportResult{LoadResult: LoadResult{TotalFiles: len(files)}}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := db.GetTrackedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading file tracker: %w", err)
	}

	var (
		toParse []source.DiscoveredFile
		infos   []store.FileInfo
	)
	for _, f := range files {
		st, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			continue
		}
		fi := store.FileInfo{MtimeNs: st.ModTime().UnixNano(), SizeBytes: st.Size()}
		if prev, ok := tracked[f.Path]; ok && prev == fi {
			result.Unchanged++
			continue
		}
		toParse = append(toParse, f)
		infos = append(infos, fi)
	}

	if len(toParse) == 0 {
		return result, nil
	}

	parsed := parseFiles(toParse, defaultUser, progressFn)
	for i, pr := range parsed {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		conflicts, err := db.ReplaceFileMeals(ctx, toParse[i].Path, pr.Meals, infos[i])
		if err != nil {
			return result, fmt.Errorf("importing %s: %w", toParse[i].Path, err)
		}
		if len(conflicts) > 0 {
			slog.Warn("Skipped meals whose id is already taken", "file", toParse[i].Path, "ids", conflicts)
		}
		result.ParsedFiles++
		result.Imported++
		result.ParseErrors += pr.ParseErrors + len(conflicts)
		result.Meals = append(result.Meals, withoutIDs(pr.Meals, conflicts)...)
	}

	sortMeals(result.Meals)
	return result, nil
}

func withoutIDs(meals []model.Meal, ids []string) []model.Meal {
	if len(ids) == 0 {
		return meals
	}
	return slices.DeleteFunc(slices.Clone(meals), func(m model.Meal) bool {
		return m.ID != "" && slices.Contains(ids, m.ID)
	})
}
