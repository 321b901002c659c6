package analysis

import (
	"context"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// BuildSummary computes the executive analysis summary consumed by
// downstream document assembly. Headline numbers (key statistics, faculty,
// residency, and gender breakdowns) focus on the latest academic year when
// the table spans several; the equity distributions and CDEV statistics
// cover every year. dataSource names where the rows came from and is
// carried verbatim into the report metadata.
func (a *Analyzer) BuildSummary(ctx context.Context, tbl *dataset.Table, dataSource string) *domain.AnalysisSummary {
	years := academicYears(tbl)
	isMulti := len(years) > 1

	yearStr := ""
	if len(years) > 0 {
		yearStr = strconv.Itoa(years[len(years)-1])
	}
	focusYear := ""
	if isMulti {
		focusYear = yearStr
	}
	focus := focusRows(tbl, years)

	now := time.Now()
	summary := &domain.AnalysisSummary{
		ReportMetadata: domain.ReportMetadata{
			GenerationDate:          now.Format(time.RFC3339),
			GenerationDateFormatted: now.Format("January 2, 2006"),
			DataSource:              dataSource,
			TotalRecords:            tbl.NumRows(),
			AcademicYear:            yearStr,
			ReportTitle:             domain.ReportTitle,
			ReportVersion:           domain.ReportVersion,
			IsMultiYearAnalysis:     isMulti,
			FocusYear:               focusYear,
		},
		KeyStatistics: domain.KeyStatistics{
			TotalStudents:  distinctOver(tbl, focus, domain.ColMaskedID),
			TotalFaculties: distinctOver(tbl, focus, domain.ColFacultyDescr),
			TotalCourses:   distinctOver(tbl, focus, domain.ColCourseCode),
			FocusYear:      focusYear,
		},
	}

	facultyCounts := distinctStudentsBy(tbl, focus, domain.ColFacultyDescr)
	denominator := 0
	for _, n := range facultyCounts {
		denominator += n
	}
	summary.FacultyBreakdown = breakdown(facultyCounts, denominator)
	summary.ResidencyBreakdown = breakdown(
		distinctStudentsBy(tbl, focus, domain.ColResidencyGroup), denominator)
	summary.GenderBreakdown, summary.GenderMetadata = genderBreakdown(tbl, focus, yearStr)

	summary.EquityCohortStatistics = domain.EquityCohortStatistics{
		FirstGenerationRate:         firstGenerationRate(tbl, focus),
		IndigenousParticipationRate: indigenousRate(tbl, focus),
		SESDistribution:             tbl.ValueCounts(domain.ColSES),
		RegionalDistribution:        tbl.ValueCounts(domain.ColRegionalRemote),
	}
	summary.CDEVStatistics = cdevStatistics(tbl)

	a.logger.InfoContext(ctx, "analysis summary generated",
		slog.Int("total_records", tbl.NumRows()),
		slog.String("academic_year", yearStr),
		slog.Bool("multi_year", isMulti))
	return summary
}

// focusRows returns the row indices the headline numbers cover: the latest
// year's rows for multi-year data, every row otherwise.
func focusRows(tbl *dataset.Table, years []int) []int {
	rows := make([]int, 0, tbl.NumRows())
	if len(years) > 1 {
		latest := years[len(years)-1]
		for row := 0; row < tbl.NumRows(); row++ {
			if y, ok := tbl.Cell(row, domain.ColAcademicYear).Int(); ok && int(y) == latest {
				rows = append(rows, row)
			}
		}
		return rows
	}
	for row := 0; row < tbl.NumRows(); row++ {
		rows = append(rows, row)
	}
	return rows
}

// distinctOver counts distinct non-absent values of a column across the
// given rows.
func distinctOver(tbl *dataset.Table, rows []int, column string) int {
	if !tbl.HasColumn(column) {
		return 0
	}
	seen := make(map[string]bool)
	for _, row := range rows {
		if c := tbl.Cell(row, column); !c.IsAbsent() {
			seen[c.Key()] = true
		}
	}
	return len(seen)
}

// distinctStudentsBy counts distinct student ids per value of a column
// across the given rows.
func distinctStudentsBy(tbl *dataset.Table, rows []int, column string) map[string]int {
	sets := make(map[string]map[string]bool)
	for _, row := range rows {
		value := tbl.Cell(row, column).String()
		if value == "" {
			continue
		}
		id := tbl.Cell(row, domain.ColMaskedID)
		if id.IsAbsent() {
			continue
		}
		set := sets[value]
		if set == nil {
			set = make(map[string]bool)
			sets[value] = set
		}
		set[id.Key()] = true
	}
	out := make(map[string]int, len(sets))
	for value, set := range sets {
		out[value] = len(set)
	}
	return out
}

// breakdown pairs each count with its share of the focus-year student
// total, one decimal.
func breakdown(counts map[string]int, total int) map[string]domain.BreakdownEntry {
	out := make(map[string]domain.BreakdownEntry, len(counts))
	for value, n := range counts {
		pct := 0.0
		if total > 0 {
			pct = round1(float64(n) / float64(total) * 100)
		}
		out[value] = domain.BreakdownEntry{Count: n, Percentage: pct}
	}
	return out
}

// genderBreakdown counts focus-year rows per gender value. Unlike the
// student breakdowns this is a row count, taken over rows that carry a
// gender at all; the metadata block records how much of the focus year
// that covers. Without any gender data the breakdown degrades to a single
// zero "Not Available" entry and no metadata.
func genderBreakdown(tbl *dataset.Table, focus []int, yearStr string) (map[string]domain.BreakdownEntry, *domain.GenderMetadata) {
	counts := make(map[string]int)
	withGender := 0
	if tbl.HasColumn(domain.ColGender) {
		for _, row := range focus {
			if c := tbl.Cell(row, domain.ColGender); !c.IsAbsent() {
				counts[c.String()]++
				withGender++
			}
		}
	}
	if withGender == 0 {
		return map[string]domain.BreakdownEntry{
			"Not Available": {Count: 0, Percentage: 0},
		}, nil
	}
	out := make(map[string]domain.BreakdownEntry, len(counts))
	for value, n := range counts {
		out[value] = domain.BreakdownEntry{
			Count:      n,
			Percentage: round1(float64(n) / float64(withGender) * 100),
		}
	}
	coverage := 0.0
	if len(focus) > 0 {
		coverage = round1(float64(withGender) / float64(len(focus)) * 100)
	}
	return out, &domain.GenderMetadata{
		TotalRecordsWithGender: withGender,
		TotalLatestYearRecords: len(focus),
		LatestYearUsed:         yearStr,
		GenderDataCoverage:     coverage,
	}
}

func firstGenerationRate(tbl *dataset.Table, focus []int) float64 {
	if !tbl.HasColumn(domain.ColFirstGeneration) || len(focus) == 0 {
		return 0
	}
	n := 0
	for _, row := range focus {
		if text, ok := tbl.Cell(row, domain.ColFirstGeneration).Text(); ok && text == "First Generation" {
			n++
		}
	}
	return round1(float64(n) / float64(len(focus)) * 100)
}

// indigenousRate counts every focus row not explicitly marked
// "Non Indigenous", absent values included.
func indigenousRate(tbl *dataset.Table, focus []int) float64 {
	if !tbl.HasColumn(domain.ColATSIGroup) || len(focus) == 0 {
		return 0
	}
	n := 0
	for _, row := range focus {
		if tbl.Cell(row, domain.ColATSIGroup).String() != "Non Indigenous" {
			n++
		}
	}
	return round1(float64(n) / float64(len(focus)) * 100)
}

// cdevStatistics covers every row whose course code carries the CDEV
// career-development marker, across all years.
func cdevStatistics(tbl *dataset.Table) domain.CDEVStatistics {
	students := make(map[string]bool)
	courses := make(map[string]bool)
	for row := 0; row < tbl.NumRows(); row++ {
		code, ok := tbl.Cell(row, domain.ColCourseCode).Text()
		if !ok || !strings.Contains(strings.ToUpper(code), "CDEV") {
			continue
		}
		courses[code] = true
		if id := tbl.Cell(row, domain.ColMaskedID); !id.IsAbsent() {
			students[id.Key()] = true
		}
	}
	list := slices.Sorted(maps.Keys(courses))
	if list == nil {
		list = []string{}
	}
	return domain.CDEVStatistics{
		TotalCDEVStudents: len(students),
		TotalCDEVCourses:  len(courses),
		CDEVCourseList:    list,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
