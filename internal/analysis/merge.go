package analysis

import (
	"context"
	"log/slog"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// Merge concatenates cleaned tables preserving input order. The merged
// column set is the union of the inputs' columns in first-seen order;
// cells a source never carried are absent. When both MASKED_ID and
// ACADEMIC_YEAR exist, rows repeating an already-seen (student, year) pair
// are dropped keeping the first occurrence, so the same enrollment
// arriving in two extracts is counted once.
func (a *Analyzer) Merge(ctx context.Context, tables []*dataset.Table) *dataset.Table {
	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, col := range t.Columns() {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	merged := dataset.New(columns)
	for _, t := range tables {
		for row := 0; row < t.NumRows(); row++ {
			cells := make([]dataset.Cell, len(columns))
			for i, col := range columns {
				if t.HasColumn(col) {
					cells[i] = t.Cell(row, col)
				} else {
					cells[i] = dataset.Absent()
				}
			}
			_ = merged.AppendRow(cells)
		}
	}

	removed := 0
	if merged.HasColumn(domain.ColMaskedID) && merged.HasColumn(domain.ColAcademicYear) {
		merged, removed = dropStudentYearDuplicates(merged)
	}
	a.logger.InfoContext(ctx, "merged cleaned tables",
		slog.Int("sources", len(tables)),
		slog.Int("rows", merged.NumRows()),
		slog.Int("cross_file_duplicates_removed", removed))
	return merged
}

// dropStudentYearDuplicates keeps the first row of every (student, year)
// pair. Row slices are shared with the source table, which is discarded.
func dropStudentYearDuplicates(tbl *dataset.Table) (*dataset.Table, int) {
	key := []string{domain.ColMaskedID, domain.ColAcademicYear}
	seen := make(map[string]bool, tbl.NumRows())
	out := dataset.New(tbl.Columns())
	removed := 0
	for row := 0; row < tbl.NumRows(); row++ {
		k, _ := tbl.CompositeKey(row, key)
		if seen[k] {
			removed++
			continue
		}
		seen[k] = true
		_ = out.AppendRow(tbl.Row(row))
	}
	if removed == 0 {
		return tbl, 0
	}
	return out, removed
}
