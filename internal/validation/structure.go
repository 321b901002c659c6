package validation

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"wilcli/internal/dataset"
	apperrors "wilcli/internal/errors"
	"wilcli/pkg/contracts/domain"
)

// FileInfo summarizes the structure of a successfully parsed input file.
type FileInfo struct {
	Rows         int      `json:"rows"`
	Columns      int      `json:"columns"`
	ColumnNames  []string `json:"column_names"`
	NonEmptyRows int      `json:"non_empty_rows"`
	FileSize     int64    `json:"file_size"`
}

// QualityProbe is an advisory pre-clean snapshot of a parsed table. Its
// findings are warnings only; the cleaning pipeline decides what to do
// about them.
type QualityProbe struct {
	TotalRows     int                           `json:"total_rows"`
	TotalColumns  int                           `json:"total_columns"`
	MissingData   map[string]domain.MissingStat `json:"missing_data"`
	DuplicateRows int                           `json:"duplicate_rows"`
	Warnings      []string                      `json:"warnings"`
}

// ValidateStructure rejects tables the pipeline cannot clean: zero rows,
// zero columns, or nothing but empty cells. On success it returns the
// table's shape; path is only used to record the on-disk size and may be
// empty for in-memory tables.
func (v *FileValidator) ValidateStructure(tbl *dataset.Table, path string) (*FileInfo, error) {
	if tbl.NumColumns() == 0 {
		return nil, apperrors.NewEmptyDataError("no columns found in file")
	}
	if tbl.NumRows() == 0 {
		return nil, apperrors.NewEmptyDataError("file is empty")
	}

	nonEmpty := 0
	for i := 0; i < tbl.NumRows(); i++ {
		for _, c := range tbl.Row(i) {
			if !c.IsAbsent() {
				nonEmpty++
				break
			}
		}
	}
	if nonEmpty == 0 {
		return nil, apperrors.NewEmptyDataError("file contains no data rows")
	}

	var size int64
	if path != "" {
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
	}

	info := &FileInfo{
		Rows:         tbl.NumRows(),
		Columns:      tbl.NumColumns(),
		ColumnNames:  tbl.Columns(),
		NonEmptyRows: nonEmpty,
		FileSize:     size,
	}

	v.logger.Debug("Structure validated",
		slog.String("file", path),
		slog.Int("rows", info.Rows),
		slog.Int("columns", info.Columns),
		slog.Int("non_empty_rows", info.NonEmptyRows))
	return info, nil
}

// ProbeQuality computes per-column missingness, the exact-duplicate row
// count, and advisory warnings for a parsed table. It never fails.
func (v *FileValidator) ProbeQuality(tbl *dataset.Table) *QualityProbe {
	probe := &QualityProbe{
		TotalRows:    tbl.NumRows(),
		TotalColumns: tbl.NumColumns(),
		MissingData:  make(map[string]domain.MissingStat, tbl.NumColumns()),
	}

	for _, col := range tbl.Columns() {
		missing := tbl.MissingCount(col)
		pct := 0.0
		if probe.TotalRows > 0 {
			pct = float64(missing) / float64(probe.TotalRows) * 100
		}
		probe.MissingData[col] = domain.MissingStat{
			Count:      missing,
			Percentage: math.Round(pct*100) / 100,
		}
		if pct > 50 {
			probe.Warnings = append(probe.Warnings,
				fmt.Sprintf("Column '%s' has %.1f%% missing values", col, pct))
		}
	}

	seen := make(map[string]struct{}, tbl.NumRows())
	for i := 0; i < tbl.NumRows(); i++ {
		key := tbl.RowKey(i)
		if _, dup := seen[key]; dup {
			probe.DuplicateRows++
			continue
		}
		seen[key] = struct{}{}
	}
	if probe.DuplicateRows > 0 {
		probe.Warnings = append(probe.Warnings,
			fmt.Sprintf("Found %d duplicate rows", probe.DuplicateRows))
	}

	for _, col := range tbl.Columns() {
		if tbl.DistinctCount(col) == 1 {
			probe.Warnings = append(probe.Warnings,
				fmt.Sprintf("Column '%s' has only one unique value", col))
		}
	}

	v.logger.Debug("Quality probe complete",
		slog.Int("rows", probe.TotalRows),
		slog.Int("duplicate_rows", probe.DuplicateRows),
		slog.Int("warnings", len(probe.Warnings)))
	return probe
}
