package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/source"
)

// LoadResult holds the output of loading meal-log files.
type LoadResult struct {
	Meals       []model.Meal
	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	FileErrors  int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses all meal-log files under path.
// It uses a bounded worker pool for parallel parsing. Meals are returned in date order.
func Load(path, defaultUser string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	for _, pr := range parseFiles(files, defaultUser, progressFn) {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Meals = append(result.Meals, pr.Meals...)
	}

	sortMeals(result.Meals)
	return result, nil
}

// parseFiles parses files on a bounded worker pool. Results keep input order.
func parseFiles(files []source.DiscoveredFile, defaultUser string, progressFn ProgressFunc) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx], defaultUser)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()
	return results
}

func sortMeals(meals []model.Meal) {
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].Date.Before(meals[j].Date)
	})
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "savor")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "savor")
}

// DBPath returns the full path to the meal database.
func DBPath() string {
	return filepath.Join(DataDir(), "meals.db")
}
