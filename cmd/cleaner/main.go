// Command cleaner runs the WIL enrollment cleaning pipeline over one
// extract or a directory of extracts and writes the cleaned CSVs and
// quality reports into the configured output directories.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"wilcli/internal/cleaning"
	"wilcli/internal/config"
	"wilcli/internal/infrastructure"
	"wilcli/internal/validation"
	"wilcli/pkg/contracts"
)

func main() {
	os.Exit(run())
}

func run() int {
	in := flag.String("in", "", "input file or directory of enrollment extracts (defaults to the configured input dir)")
	out := flag.String("out", "", "output directory for cleaned CSVs (defaults to the configured cleaned dir)")
	reports := flag.String("reports", "", "output directory for quality reports (defaults to the configured reports dir)")
	fill := flag.Bool("fill", false, "fill missing values (0 for integer fields, Unknown for text)")
	batch := flag.String("batch", "", "batch identifier used for output naming (defaults to a timestamp)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if *in == "" {
		*in = cfg.Paths.InputDir
	}
	if *out == "" {
		*out = cfg.Paths.CleanedDir
	}
	if *reports == "" {
		*reports = cfg.Paths.ReportsDir
	}
	fillMissing := *fill || cfg.Pipeline.FillMissing

	logger.Info("Starting WIL data cleaning",
		slog.String("version", contracts.Version),
		slog.String("input", *in),
		slog.String("output_dir", *out),
		slog.String("reports_dir", *reports),
		slog.Bool("fill_missing", fillMissing))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(*out); err != nil {
		logger.Error("Output directory validation failed", slog.String("error", err.Error()))
		return 1
	}
	if err := validator.ValidateOutputDirectory(*reports); err != nil {
		logger.Error("Reports directory validation failed", slog.String("error", err.Error()))
		return 1
	}

	paths, err := collectInputs(validator, *in)
	if err != nil {
		logger.Error("Failed to collect input files", slog.String("error", err.Error()))
		return 1
	}
	if len(paths) == 0 {
		fmt.Printf("No data files found in %s\n", *in)
		return 0
	}
	fmt.Printf("Found %d data file(s) to clean\n", len(paths))

	ctx := infrastructure.EnsureTraceID(context.Background())
	cleaner := cleaning.NewCleaner(logger, nil)
	batchCleaner := cleaning.NewBatchCleaner(logger, cleaner, cfg.Pipeline.BatchConcurrency)
	results := batchCleaner.CleanAll(ctx, paths, cleaning.Options{
		FillMissing: fillMissing,
		BatchID:     *batch,
		OutputDir:   *out,
		ReportDir:   *reports,
	})

	completed := 0
	for _, result := range results {
		if result.Status != cleaning.StatusCompleted {
			fmt.Printf("  FAILED %s: %s\n", result.OriginalFile, result.Error)
			continue
		}
		completed++
		fmt.Printf("  Cleaned %s -> %s (%d rows, %d warnings)\n",
			result.OriginalFile, result.CleanedPath,
			result.Report.CleanedRows, len(result.Report.Warnings))
	}
	fmt.Printf("Done: %d/%d files cleaned\n", completed, len(paths))

	if completed == 0 {
		return 1
	}
	return 0
}

// collectInputs resolves the -in flag to concrete file paths: a file is
// cleaned on its own, a directory contributes every supported data file
// directly under it.
func collectInputs(validator *validation.FileValidator, in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input %s: %w", in, err)
	}
	if !info.IsDir() {
		return []string{in}, nil
	}
	return validator.ListDataFiles(in)
}
