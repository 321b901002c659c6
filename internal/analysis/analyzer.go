// Package analysis builds the year-over-year comparison tables and the
// executive summary from cleaned enrollment data.
//
// The entry point is Analyzer: Merge concatenates cleaned tables from
// multiple extracts and collapses cross-file duplicates, BuildAll produces
// the three canonical comparison tables (faculty enrollment comparison,
// term breakdown, academic-level demographics), and BuildSummary computes
// the statistics consumed by downstream report assembly. Every build is a
// pure function of its input table: nothing here mutates the input or
// retains state between calls, so one analyzer can serve concurrent runs.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// Analyzer derives comparison tables and summary statistics from cleaned
// enrollment tables.
type Analyzer struct {
	logger     *slog.Logger
	classifier *Classifier
}

// NewAnalyzer creates an analyzer. A nil logger falls back to
// slog.Default; a nil classifier uses the default level rules.
func NewAnalyzer(logger *slog.Logger, classifier *Classifier) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Analyzer{logger: logger, classifier: classifier}
}

// BuildAll produces every comparison table the input supports, keyed by
// canonical table name. Comparison needs at least two distinct academic
// years; with fewer the result is an empty set and no failure, and the
// caller falls back to a single-year view.
func (a *Analyzer) BuildAll(ctx context.Context, tbl *dataset.Table) *domain.TableSet {
	years := academicYears(tbl)
	if len(years) < 2 {
		a.logger.InfoContext(ctx, "comparison tables skipped",
			slog.String("reason", "fewer than two academic years"),
			slog.Int("years_available", len(years)))
		return &domain.TableSet{}
	}
	y1 := years[len(years)-2]
	y2 := years[len(years)-1]

	tables := make(map[string]*domain.ComparisonTable, 3)
	tables[domain.TableEnrollmentComparison] = a.buildEnrollmentComparison(tbl, y1, y2)
	if t := a.buildTermBreakdown(tbl, y1, y2); t != nil {
		tables[domain.TableTermBreakdown] = t
	}
	tables[domain.TableDistinctStudents] = a.buildDistinctStudents(tbl, y1, y2)

	now := time.Now()
	set := &domain.TableSet{
		Tables: tables,
		Metadata: &domain.TableSetMetadata{
			GenerationDate:  now,
			OutputFile:      fmt.Sprintf("analysis_tables_%s.json", now.Format("20060102")),
			TotalTables:     len(tables),
			YearsCompared:   years,
			ComparisonYears: []int{y1, y2},
		},
	}
	a.logger.InfoContext(ctx, "analysis tables generated",
		slog.Int("tables", len(tables)),
		slog.Int("year_1", y1),
		slog.Int("year_2", y2))
	return set
}

// academicYears returns the distinct academic years present, ascending.
// Only integer year cells count; text survivors of a failed coercion and
// absent cells do not constitute a year.
func academicYears(tbl *dataset.Table) []int {
	if !tbl.HasColumn(domain.ColAcademicYear) {
		return nil
	}
	set := make(map[int]bool)
	for row := 0; row < tbl.NumRows(); row++ {
		if y, ok := tbl.Cell(row, domain.ColAcademicYear).Int(); ok {
			set[int(y)] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(set))
}

// yearSlot maps an academic-year cell to 0 for the base year, 1 for the
// comparison year, and -1 for everything else.
func yearSlot(c dataset.Cell, y1, y2 int) int {
	y, ok := c.Int()
	if !ok {
		return -1
	}
	switch int(y) {
	case y1:
		return 0
	case y2:
		return 1
	default:
		return -1
	}
}
