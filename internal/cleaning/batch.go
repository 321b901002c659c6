package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// DefaultConcurrency bounds how many files a batch cleans at once.
const DefaultConcurrency = 4

// Per-file batch statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// FileResult is one file's outcome within a batch run.
type FileResult struct {
	OriginalFile string
	Status       string
	CleanedPath  string
	ReportPath   string
	Error        string
	Table        *dataset.Table
	Report       *domain.QualityReport
}

// BatchCleaner cleans many files under one batch id with per-file
// isolation: one file's failure never aborts the rest.
type BatchCleaner struct {
	logger  *slog.Logger
	cleaner *Cleaner
	limit   int
}

// NewBatchCleaner creates a batch cleaner running at most concurrency
// files at a time. Zero or negative concurrency falls back to the
// default; a nil cleaner gets the default schema.
func NewBatchCleaner(logger *slog.Logger, cleaner *Cleaner, concurrency int) *BatchCleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if cleaner == nil {
		cleaner = NewCleaner(logger, nil)
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &BatchCleaner{
		logger:  logger,
		cleaner: cleaner,
		limit:   concurrency,
	}
}

// CleanAll cleans every path under a shared batch id and returns one
// result per input, in input order. Cancelling ctx fails files that have
// not started; files already running finish their pipeline.
func (b *BatchCleaner) CleanAll(ctx context.Context, paths []string, opts Options) []FileResult {
	batchID := opts.BatchID
	if batchID == "" {
		batchID = "batch_" + time.Now().Format("20060102_150405")
	}

	b.logger.InfoContext(ctx, "Batch cleaning started",
		slog.String("batch_id", batchID),
		slog.Int("files", len(paths)),
		slog.Int("concurrency", b.limit))

	results := make([]FileResult, len(paths))
	var g errgroup.Group
	g.SetLimit(b.limit)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = b.cleanOne(ctx, path, batchID, opts)
			return nil
		})
	}
	_ = g.Wait()

	completed := 0
	for _, r := range results {
		if r.Status == StatusCompleted {
			completed++
		}
	}
	b.logger.InfoContext(ctx, "Batch cleaning finished",
		slog.String("batch_id", batchID),
		slog.Int("completed", completed),
		slog.Int("failed", len(paths)-completed))
	return results
}

func (b *BatchCleaner) cleanOne(ctx context.Context, path, batchID string, opts Options) FileResult {
	result := FileResult{OriginalFile: path, Status: StatusFailed}

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result
	}

	fileOpts := opts
	base := filepath.Base(path)
	fileOpts.BatchID = fmt.Sprintf("%s_%s", batchID, strings.TrimSuffix(base, filepath.Ext(base)))

	run, err := b.cleaner.Clean(ctx, path, fileOpts)
	if err != nil {
		b.logger.ErrorContext(ctx, "File cleaning failed",
			slog.String("file", path),
			slog.String("error", err.Error()))
		result.Error = err.Error()
		return result
	}

	result.Status = StatusCompleted
	result.CleanedPath = run.CleanedPath
	result.ReportPath = run.ReportPath
	result.Table = run.Table
	result.Report = run.Report
	return result
}
