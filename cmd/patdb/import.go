package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jappleby064/pat-database/internal/cli"
	"github.com/jappleby064/pat-database/internal/common"
	"github.com/jappleby064/pat-database/internal/model"
	"github.com/jappleby064/pat-database/internal/patfile"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func init() {
	importCmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import test records from tester export files",
		Long: `Import appliance test results from the CSV-style export files a PAT
tester writes to its memory card.

Examples:
  # Import a single export
  patdb import ~/Downloads/pat_export_mar.csv

  # Import everything from a card
  patdb import /media/card/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	importCmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	importCmd.Flags().BoolP("verbose", "v", false, "Show each imported record")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	ctx := cmd.Context()

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	// Every record from this invocation shares one batch.
	batch := model.NewBatchID(time.Now())

	slog.Info("Importing tester exports",
		"file_count", len(allFiles),
		"batch", int64(batch),
		"dry_run", dryRun)

	parser := patfile.NewParser()
	var allRecords []model.TestRecord
	failedFiles := 0

	bar := progressbar.Default(int64(len(allFiles)), "importing")
	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			failedFiles++
			_ = bar.Add(1)
			continue
		}

		records, err := parser.ParseFile(ctx, f, batch)
		_ = f.Close()
		if err != nil {
			common.LogError(err, "Failed to parse export file", common.Fields{"file": filePath})
			failedFiles++
			_ = bar.Add(1)
			continue
		}

		allRecords = append(allRecords, records...)
		_ = bar.Add(1)
	}

	if len(allRecords) == 0 {
		return common.NewUserError("no records found in any file", common.ErrNoRecords)
	}

	if verbose {
		for i := range allRecords {
			rec := &allRecords[i]
			fmt.Printf("  %s  %s  %-8s  %s\n",
				rec.AssetID,
				rec.TestDate.Format("2006-01-02"),
				rec.Class,
				cli.FormatResult(rec.OverallResult()))
		}
	}

	if dryRun {
		fmt.Println(cli.FormatTitle("Dry run"))
		fmt.Printf("Would import %d records from %d files\n", len(allRecords), len(allFiles))
		return nil
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTestRecords(ctx, allRecords); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	failed := 0
	inferred := 0
	for i := range allRecords {
		if allRecords[i].OverallResult() == model.ResultFail {
			failed++
		}
		if allRecords[i].DateInferred {
			inferred++
		}
	}

	fmt.Println(cli.FormatTitle("Import complete"))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d records imported (batch %d)", len(allRecords), int64(batch))))
	if failed > 0 {
		fmt.Println(cli.FormatError(fmt.Sprintf("%d failed tests", failed)))
	}
	if inferred > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d records had unparseable dates (import date substituted)", inferred)))
	}
	if failedFiles > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d files could not be read", failedFiles)))
	}

	return nil
}
