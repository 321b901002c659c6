package cleaning

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// grouped renders counts with thousands separators in the text report.
var grouped = message.NewPrinter(language.English)

// buildReport snapshots the run into a quality report. Missing-value
// statistics and categorical distributions are computed from the table as
// it stands, so the caller decides whether the snapshot is pre or post
// persistence by when it calls.
func (c *Cleaner) buildReport(runCtx *Context, tbl *dataset.Table) *domain.QualityReport {
	rep := &domain.QualityReport{
		OriginalRows:           runCtx.originalRows,
		CleanedRows:            tbl.NumRows(),
		RemovedRows:            runCtx.originalRows - tbl.NumRows(),
		ColumnCount:            tbl.NumColumns(),
		Columns:                tbl.Columns(),
		MissingValues:          make(map[string]domain.MissingStat),
		Distributions:          make(map[string]map[string]int, len(runCtx.categoricalColumns)),
		ExactDuplicatesRemoved: runCtx.exactDupsRemoved,
		KeyDuplicatesRemoved:   runCtx.keyDupsRemoved,
		Warnings:               slices.Clone(runCtx.warnings),
		Actions:                slices.Clone(runCtx.actions),
	}
	if rep.RemovedRows < 0 {
		rep.RemovedRows = 0
	}

	rows := tbl.NumRows()
	for _, column := range rep.Columns {
		missing := tbl.MissingCount(column)
		if missing == 0 {
			continue
		}
		pct := 0.0
		if rows > 0 {
			pct = float64(missing) / float64(rows) * 100
		}
		rep.MissingValues[column] = domain.MissingStat{Count: missing, Percentage: pct}
	}
	for _, column := range runCtx.categoricalColumns {
		rep.Distributions[column] = tbl.ValueCounts(column)
	}
	return rep
}

// renderReport formats the quality report as the four-section text file
// shipped next to the cleaned data. categoricalOrder fixes the section 3
// field order; map iteration would shuffle it run to run.
func renderReport(rep *domain.QualityReport, categoricalOrder []string, generatedAt time.Time) string {
	divider := strings.Repeat("=", 60)
	rule := strings.Repeat("-", 30)

	lines := []string{
		divider,
		"DATA CLEANING QUALITY REPORT",
		divider,
		"Generated at: " + generatedAt.Format("2006-01-02 15:04:05"),
		"",
		"1. DATA OVERVIEW",
		rule,
		grouped.Sprintf("Original records: %d", rep.OriginalRows),
		grouped.Sprintf("Cleaned records: %d", rep.CleanedRows),
		grouped.Sprintf("Removed records: %d", rep.RemovedRows),
		fmt.Sprintf("Number of fields: %d", rep.ColumnCount),
		"",
		"2. MISSING VALUE STATISTICS",
		rule,
	}

	for _, column := range rep.Columns {
		stat, ok := rep.MissingValues[column]
		if !ok {
			continue
		}
		lines = append(lines, grouped.Sprintf("%s: %d (%.2f%%)", column, stat.Count, stat.Percentage))
	}

	lines = append(lines, "", "3. CATEGORICAL VARIABLE DISTRIBUTION", rule)
	for _, column := range categoricalOrder {
		lines = append(lines, "", column+":")
		for _, vc := range sortedByCount(rep.Distributions[column]) {
			pct := 0.0
			if rep.CleanedRows > 0 {
				pct = float64(vc.count) / float64(rep.CleanedRows) * 100
			}
			lines = append(lines, grouped.Sprintf("  %s: %d (%.2f%%)", vc.value, vc.count, pct))
		}
	}

	lines = append(lines, "", "4. DATA CLEANING OPERATION LOG", rule)
	for _, entry := range rep.Actions {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Action, entry.Detail))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

type valueCount struct {
	value string
	count int
}

// sortedByCount orders a distribution by descending count, breaking ties
// by value so output is stable.
func sortedByCount(counts map[string]int) []valueCount {
	out := make([]valueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, valueCount{value: value, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].value < out[j].value
	})
	return out
}

// formatCounts renders a distribution as "F: 600, M: 580" in descending
// count order.
func formatCounts(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, vc := range sortedByCount(counts) {
		parts = append(parts, fmt.Sprintf("%s: %d", vc.value, vc.count))
	}
	return strings.Join(parts, ", ")
}
