package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/pipeline"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var flagImportDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>",
	Short: "Bulk import meals from YAML meal logs",
	Long: `Import meals from YAML meal-log files. A directory is scanned for
.yaml and .yml files. Files unchanged since their last import are skipped,
and a changed file replaces the meals it contributed before.

  user: ana
  meals:
    - {id: m1, type: ramen, cost: 14.5, date: 2025-06-03, notes: "with Sam"}`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Parse and report without writing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	path := args[0]
	progress := newImportProgress()

	if flagImportDryRun {
		res, err := pipeline.Load(path, cfg.General.UserID, progress.step)
		progress.finish()
		if err != nil {
			return err
		}
		fmt.Printf("\n  %s files, %s meals (%s), %d invalid entries, %d unreadable files\n",
			cli.FormatNumber(int64(res.TotalFiles)),
			cli.FormatNumber(int64(len(res.Meals))),
			cli.FormatCost(pipeline.SumCost(res.Meals)),
			res.ParseErrors, res.FileErrors)
		return nil
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := pipeline.Import(ctx, path, cfg.General.UserID, s.db, progress.step)
	progress.finish()
	if err != nil {
		return err
	}
	slog.Info("Imported meal logs",
		"path", path,
		"files", res.TotalFiles,
		"imported", res.Imported,
		"unchanged", res.Unchanged,
		"meals", len(res.Meals),
	)

	fmt.Printf("\n  Imported %s meals from %d files (%d unchanged)\n",
		cli.FormatNumber(int64(len(res.Meals))), res.Imported, res.Unchanged)
	if res.ParseErrors > 0 || res.FileErrors > 0 {
		fmt.Printf("  Skipped %d invalid entries and %d unreadable files\n", res.ParseErrors, res.FileErrors)
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}
	unlocked, err := s.checkAchievements(ctx)
	if err != nil {
		return err
	}
	printUnlocked(unlocked)
	return nil
}

// importProgress draws a progress bar once the number of files to parse is known.
type importProgress struct {
	once sync.Once
	bar  *progressbar.ProgressBar
}

func newImportProgress() *importProgress {
	return &importProgress{}
}

func (p *importProgress) step(_, total int) {
	if flagQuiet {
		return
	}
	p.once.Do(func() {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan]Parsing meal logs[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	})
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

func (p *importProgress) finish() {
	if p.bar == nil {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	fmt.Fprintln(os.Stderr)
}
