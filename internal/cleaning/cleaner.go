// Package cleaning implements the enrollment data cleaning pipeline: read
// with encoding fallback, normalize missing values, coerce integer
// columns, trim and validate text, optionally fill, deduplicate, and ship
// a cleaned CSV plus a quality report. Cleaning never rejects suspect
// values; it records them and moves on, so the output always covers the
// full input.
package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"wilcli/internal/dataset"
	apperrors "wilcli/internal/errors"
	"wilcli/internal/exporter"
	"wilcli/internal/validation"
	"wilcli/pkg/contracts/domain"
)

// Options configures one cleaning run.
type Options struct {
	// FillMissing fills absent cells after validation: 0 for integer
	// columns, "Unknown" for everything else.
	FillMissing bool
	// BatchID names the run's outputs. Empty means a timestamp.
	BatchID string
	// OutputDir receives the cleaned CSV. Empty means the working
	// directory.
	OutputDir string
	// ReportDir receives the text quality report. Empty means OutputDir.
	ReportDir string
}

// Result is one successful cleaning run.
type Result struct {
	Table       *dataset.Table
	Report      *domain.QualityReport
	CleanedPath string
	ReportPath  string
}

// Cleaner runs the cleaning pipeline. It carries no per-run state, so one
// Cleaner may serve concurrent runs.
type Cleaner struct {
	logger    *slog.Logger
	config    *Config
	reader    *Reader
	validator *validation.FileValidator
	writer    *exporter.CSVWriter
}

// NewCleaner creates a Cleaner. A nil logger falls back to the process
// default; a nil config falls back to the WIL extract schema.
func NewCleaner(logger *slog.Logger, cfg *Config) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Cleaner{
		logger:    logger,
		config:    cfg,
		reader:    NewReader(logger),
		validator: validation.NewFileValidator(logger),
		writer:    exporter.NewCSVWriter(logger),
	}
}

// Clean runs the full pipeline over one file and persists the cleaned CSV
// and the text quality report into opts.OutputDir.
func (c *Cleaner) Clean(ctx context.Context, path string, opts Options) (*Result, error) {
	runID := opts.BatchID
	if runID == "" {
		runID = time.Now().Format("20060102_150405")
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	logger := c.logger.With(
		slog.String("file", path),
		slog.String("run_id", runID))
	logger.InfoContext(ctx, "Cleaning run started",
		slog.Bool("fill_missing", opts.FillMissing))

	if err := c.validator.ValidateFilename(filepath.Base(path)); err != nil {
		return nil, err
	}

	runCtx := newContext(runID)

	tbl, encoding, err := c.reader.Read(path)
	if err != nil {
		logger.ErrorContext(ctx, "Read failed", slog.String("error", err.Error()))
		return nil, err
	}
	runCtx.Log("Data Reading", readDetail(path, encoding, tbl))

	if _, err := c.validator.ValidateStructure(tbl, path); err != nil {
		logger.ErrorContext(ctx, "Structural validation failed", slog.String("error", err.Error()))
		return nil, err
	}

	probe := c.validator.ProbeQuality(tbl)
	for _, finding := range probe.Warnings {
		logger.DebugContext(ctx, "Pre-clean quality finding", slog.String("finding", finding))
	}

	runCtx.setOriginalRows(tbl.NumRows())

	c.normalize(tbl, runCtx)
	c.cleanText(tbl, runCtx)
	if opts.FillMissing {
		c.fillMissing(tbl, runCtx)
	}
	tbl = c.dedupe(tbl, runCtx)

	reportDir := opts.ReportDir
	if reportDir == "" {
		reportDir = outputDir
	}
	cleanedPath, reportPath, err := c.persist(tbl, runCtx, outputDir, reportDir)
	if err != nil {
		logger.ErrorContext(ctx, "Persist failed", slog.String("error", err.Error()))
		return nil, err
	}

	report := c.buildReport(runCtx, tbl)
	logger.InfoContext(ctx, "Cleaning run finished",
		slog.Int("original_rows", report.OriginalRows),
		slog.Int("cleaned_rows", report.CleanedRows),
		slog.Int("removed_rows", report.RemovedRows),
		slog.Int("warnings", len(report.Warnings)),
		slog.String("cleaned_path", cleanedPath))

	return &Result{
		Table:       tbl,
		Report:      report,
		CleanedPath: cleanedPath,
		ReportPath:  reportPath,
	}, nil
}

// persist writes the cleaned CSV and the rendered quality report. The
// saving actions are logged after the report text is rendered, so the
// text file ends with the consistency check while the in-memory report
// still carries the full log.
func (c *Cleaner) persist(tbl *dataset.Table, runCtx *Context, outputDir, reportDir string) (string, string, error) {
	year := outputYear(tbl)

	cleanedPath := filepath.Join(outputDir, fmt.Sprintf("WIL_%s_cleaned.csv", year))
	if err := c.writer.WriteSimpleCSV(cleanedPath, tbl.Columns(), tbl.Records()); err != nil {
		return "", "", apperrors.NewStorageError(
			fmt.Sprintf("failed to write cleaned data to %s", cleanedPath), err)
	}

	text := renderReport(c.buildReport(runCtx, tbl), runCtx.categoricalColumns, time.Now())
	reportPath := filepath.Join(reportDir, fmt.Sprintf("data_cleaning_report_%s_%s.txt", year, runCtx.RunID()))
	if reportDir != "." {
		if err := os.MkdirAll(reportDir, 0755); err != nil {
			return "", "", apperrors.NewStorageError(
				fmt.Sprintf("failed to create report directory %s", reportDir), err)
		}
	}
	if err := os.WriteFile(reportPath, []byte(text), 0644); err != nil {
		return "", "", apperrors.NewStorageError(
			fmt.Sprintf("failed to write quality report to %s", reportPath), err)
	}

	runCtx.Log("Data Saving", fmt.Sprintf("Cleaned data saved to: %s", cleanedPath))
	runCtx.Log("Report Saving", fmt.Sprintf("Quality report saved to: %s", reportPath))
	return cleanedPath, reportPath, nil
}

// Load reads an already-cleaned file back into a typed table: structural
// validation, blank-to-absent conversion, and integer-column coercion,
// with no report, no deduplication, and nothing persisted. The analysis
// side uses it to rehydrate cleaned CSVs whose cells all arrive as text.
func (c *Cleaner) Load(ctx context.Context, path string) (*dataset.Table, error) {
	tbl, _, err := c.reader.Read(path)
	if err != nil {
		return nil, err
	}
	if _, err := c.validator.ValidateStructure(tbl, path); err != nil {
		return nil, err
	}

	blankToAbsent(tbl)
	for _, column := range c.config.IntegerFields {
		if !tbl.HasColumn(column) {
			continue
		}
		if failed := coerceIntColumn(tbl, column); failed > 0 {
			c.logger.WarnContext(ctx, "Non-numeric values in integer column",
				slog.String("file", path),
				slog.String("column", column),
				slog.Int("failed", failed))
		}
	}
	return tbl, nil
}

// readDetail names the source format in the action log the way analysts
// see it in the quality report.
func readDetail(path, encoding string, tbl *dataset.Table) string {
	shape := fmt.Sprintf("shape: (%d, %d)", tbl.NumRows(), tbl.NumColumns())
	switch encoding {
	case EncodingGBK:
		return fmt.Sprintf("Read CSV file using GBK encoding %s, %s", path, shape)
	case EncodingLatin1:
		return fmt.Sprintf("Read CSV file using Latin1 encoding %s, %s", path, shape)
	case FormatXLSX, FormatXLS:
		return fmt.Sprintf("Successfully read Excel file %s, %s", path, shape)
	default:
		return fmt.Sprintf("Successfully read CSV file %s, %s", path, shape)
	}
}

// outputYear names the run's outputs after the table's dominant academic
// year. Ties go to the smaller year; a table with no year data at all
// falls back to a generic name.
func outputYear(tbl *dataset.Table) string {
	counts := tbl.ValueCounts(domain.ColAcademicYear)
	if len(counts) == 0 {
		return "data"
	}
	best, bestCount := "", -1
	for _, year := range slices.Sorted(maps.Keys(counts)) {
		if counts[year] > bestCount {
			best, bestCount = year, counts[year]
		}
	}
	return best
}
