// Command analyzer merges cleaned WIL enrollment files and writes the
// year-over-year comparison tables and the executive analysis summary
// into the configured analysis directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wilcli/internal/analysis"
	"wilcli/internal/cleaning"
	"wilcli/internal/config"
	"wilcli/internal/dataset"
	"wilcli/internal/exporter"
	"wilcli/internal/infrastructure"
	"wilcli/internal/validation"
	"wilcli/pkg/contracts"
)

func main() {
	os.Exit(run())
}

func run() int {
	in := flag.String("in", "", "directory of cleaned CSVs (defaults to the configured cleaned dir); positional arguments name explicit files instead")
	out := flag.String("out", "", "output directory for analysis artifacts (defaults to the configured analysis dir)")
	source := flag.String("source", "", "data source label carried into the report metadata")
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
		*in = cfg.Paths.CleanedDir
	}
	if *out == "" {
		*out = cfg.Paths.AnalysisDir
	}

	logger.Info("Starting WIL enrollment analysis",
		slog.String("version", contracts.Version),
		slog.String("input", *in),
		slog.String("output_dir", *out))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(*out); err != nil {
		logger.Error("Output directory validation failed", slog.String("error", err.Error()))
		return 1
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths, err = validator.ListDataFiles(*in)
		if err != nil {
			logger.Error("Failed to list cleaned files", slog.String("error", err.Error()))
			return 1
		}
	}
	if len(paths) == 0 {
		fmt.Printf("No cleaned data files found in %s\n", *in)
		return 0
	}
	fmt.Printf("Found %d cleaned file(s) to analyze\n", len(paths))

	ctx := infrastructure.EnsureTraceID(context.Background())
	loader := cleaning.NewCleaner(logger, nil)

	// One structurally invalid input fails the whole merge: comparison
	// numbers built over a partial input set would be silently wrong.
	tables := make([]*dataset.Table, 0, len(paths))
	for _, path := range paths {
		tbl, err := loader.Load(ctx, path)
		if err != nil {
			logger.Error("Failed to load cleaned file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			fmt.Printf("  FAILED %s: %v\n", path, err)
			return 1
		}
		fmt.Printf("  Loaded %s (%d rows)\n", path, tbl.NumRows())
		tables = append(tables, tbl)
	}

	analyzer := analysis.NewAnalyzer(logger, nil)
	merged := analyzer.Merge(ctx, tables)
	fmt.Printf("Merged table: %d rows across %d file(s)\n", merged.NumRows(), len(tables))

	dataSource := *source
	if dataSource == "" {
		dataSource = defaultDataSource(paths)
	}

	tableSet := analyzer.BuildAll(ctx, merged)
	tablesExporter := exporter.NewTableSetExporter(logger, cfg.Pipeline.CSVByteOrderMark)
	if tableSet.Empty() {
		fmt.Println("Fewer than two academic years present; comparison tables skipped")
	} else {
		jsonPath := filepath.Join(*out, tableSet.Metadata.OutputFile)
		if err := tablesExporter.ExportJSON(tableSet, jsonPath); err != nil {
			logger.Error("Failed to export tables as JSON", slog.String("error", err.Error()))
			return 1
		}
		fmt.Printf("  Wrote %s\n", jsonPath)

		written, err := tablesExporter.ExportCSV(tableSet, *out)
		if err != nil {
			logger.Error("Failed to export tables as CSV", slog.String("error", err.Error()))
			return 1
		}
		for _, path := range written {
			fmt.Printf("  Wrote %s\n", path)
		}

		years := tableSet.Metadata.ComparisonYears
		workbookPath := filepath.Join(*out,
			fmt.Sprintf("wil_analysis_tables_%d_%d.xlsx", years[0], years[1]))
		if err := tablesExporter.ExportWorkbook(tableSet, workbookPath); err != nil {
			logger.Error("Failed to export workbook", slog.String("error", err.Error()))
			return 1
		}
		fmt.Printf("  Wrote %s\n", workbookPath)
	}

	summary := analyzer.BuildSummary(ctx, merged, dataSource)
	summaryPath := filepath.Join(*out,
		fmt.Sprintf("analysis_summary_%s.json", time.Now().Format("20060102")))
	if err := exporter.NewJSONWriter(logger).WriteJSON(summaryPath, summary); err != nil {
		logger.Error("Failed to export analysis summary", slog.String("error", err.Error()))
		return 1
	}
	fmt.Printf("  Wrote %s\n", summaryPath)

	fmt.Println("Analysis complete")
	return 0
}

// defaultDataSource names the analysis input after its files when the
// caller gave no -source label.
func defaultDataSource(paths []string) string {
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = filepath.Base(path)
	}
	return strings.Join(names, ", ")
}
