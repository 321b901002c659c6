package analysis

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// studentSet tracks distinct student ids for the two compared years.
type studentSet struct {
	ids [2]map[string]bool
}

func newStudentSet() *studentSet {
	return &studentSet{ids: [2]map[string]bool{{}, {}}}
}

func (s *studentSet) add(slot int, id string) {
	s.ids[slot][id] = true
}

func (s *studentSet) merge(other *studentSet) {
	for slot := range other.ids {
		for id := range other.ids[slot] {
			s.ids[slot][id] = true
		}
	}
}

func (s *studentSet) count(slot int) int {
	return len(s.ids[slot])
}

// changeCell applies the shared percentage-change law: a one-decimal
// percentage when the base year has students, New when students appear
// only in the comparison year, N/A when both years are empty. The division
// never runs in the sentinel cases.
func changeCell(c1, c2 int) domain.CellValue {
	switch {
	case c1 > 0:
		return domain.Percent(float64(c2-c1) / float64(c1) * 100)
	case c2 > 0:
		return domain.Sentinel(domain.SentinelNew)
	default:
		return domain.Sentinel(domain.SentinelNotApplicable)
	}
}

// buildEnrollmentComparison produces Table 1: distinct WIL students per
// faculty in each of the two compared years, with percentage change and a
// column-sum Grand Total row last.
func (a *Analyzer) buildEnrollmentComparison(tbl *dataset.Table, y1, y2 int) *domain.ComparisonTable {
	byFaculty := make(map[string]*studentSet)
	for row := 0; row < tbl.NumRows(); row++ {
		slot := yearSlot(tbl.Cell(row, domain.ColAcademicYear), y1, y2)
		if slot < 0 {
			continue
		}
		faculty := tbl.Cell(row, domain.ColFacultyDescr).String()
		if faculty == "" {
			continue
		}
		set := byFaculty[faculty]
		if set == nil {
			set = newStudentSet()
			byFaculty[faculty] = set
		}
		if id := tbl.Cell(row, domain.ColMaskedID); !id.IsAbsent() {
			set.add(slot, id.Key())
		}
	}

	h1 := strconv.Itoa(y1)
	h2 := strconv.Itoa(y2)
	rows := make([]domain.Row, 0, len(byFaculty)+1)
	total1, total2 := 0, 0
	for _, faculty := range slices.Sorted(maps.Keys(byFaculty)) {
		set := byFaculty[faculty]
		c1 := set.count(0)
		c2 := set.count(1)
		rows = append(rows, domain.Row{
			domain.HeaderFaculty:       domain.Label(faculty),
			h1:                         domain.Count(c1),
			h2:                         domain.Count(c2),
			domain.HeaderPercentChange: changeCell(c1, c2),
		})
		total1 += c1
		total2 += c2
	}
	rows = append(rows, domain.Row{
		domain.HeaderFaculty:       domain.Label(domain.GrandTotalLabel),
		h1:                         domain.Count(total1),
		h2:                         domain.Count(total2),
		domain.HeaderPercentChange: changeCell(total1, total2),
	})

	totalPct := changeCell(total1, total2).String()
	return &domain.ComparisonTable{
		Title:   "Table 1: Year Comparison with % Change",
		Headers: []string{domain.HeaderFaculty, h1, h2, domain.HeaderPercentChange},
		Rows:    rows,
		Summary: map[string]interface{}{
			"year_1":           h1,
			"year_2":           h2,
			"total_change":     total2 - total1,
			"total_change_pct": totalPct,
			"change_description": fmt.Sprintf(
				"Overall enrollment changed by %d students (%s) from %d to %d",
				total2-total1, totalPct, y1, y2),
		},
	}
}

// buildTermBreakdown produces Table 2: distinct WIL students per faculty
// across every (year, term) combination of the two compared years, under a
// two-level year/term header, with a column-sum Grand Total. The column
// set is dynamic: whatever terms the data holds. Returns nil when the
// input has no term column.
func (a *Analyzer) buildTermBreakdown(tbl *dataset.Table, y1, y2 int) *domain.ComparisonTable {
	if !tbl.HasColumn(domain.ColTerm) {
		a.logger.Warn("term breakdown skipped",
			slog.String("reason", "TERM column missing"))
		return nil
	}

	termSet := make(map[int]bool)
	facultySet := make(map[string]bool)
	for row := 0; row < tbl.NumRows(); row++ {
		if term, ok := tbl.Cell(row, domain.ColTerm).Int(); ok {
			termSet[int(term)] = true
		}
		if faculty := tbl.Cell(row, domain.ColFacultyDescr).String(); faculty != "" {
			facultySet[faculty] = true
		}
	}
	terms := slices.Sorted(maps.Keys(termSet))
	faculties := slices.Sorted(maps.Keys(facultySet))

	columns := make([]string, 0, 2*len(terms))
	level1 := []string{domain.HeaderEnrolmentCount, domain.HeaderTerm}
	level2 := []string{"", ""}
	for _, year := range []int{y1, y2} {
		for _, term := range terms {
			columns = append(columns, fmt.Sprintf("%d %d", year, term))
			level1 = append(level1, strconv.Itoa(year))
			level2 = append(level2, strconv.Itoa(term))
		}
	}

	counts := make(map[string]map[string]map[string]bool)
	for row := 0; row < tbl.NumRows(); row++ {
		slot := yearSlot(tbl.Cell(row, domain.ColAcademicYear), y1, y2)
		if slot < 0 {
			continue
		}
		term, ok := tbl.Cell(row, domain.ColTerm).Int()
		if !ok {
			continue
		}
		faculty := tbl.Cell(row, domain.ColFacultyDescr).String()
		if faculty == "" {
			continue
		}
		id := tbl.Cell(row, domain.ColMaskedID)
		if id.IsAbsent() {
			continue
		}
		year := y1
		if slot == 1 {
			year = y2
		}
		column := fmt.Sprintf("%d %d", year, term)
		byColumn := counts[faculty]
		if byColumn == nil {
			byColumn = make(map[string]map[string]bool)
			counts[faculty] = byColumn
		}
		ids := byColumn[column]
		if ids == nil {
			ids = make(map[string]bool)
			byColumn[column] = ids
		}
		ids[id.Key()] = true
	}

	rows := make([]domain.Row, 0, len(faculties)+1)
	columnTotals := make(map[string]int, len(columns))
	for _, faculty := range faculties {
		r := domain.Row{
			domain.HeaderEnrolmentCount: domain.Blank(),
			domain.HeaderTerm:           domain.Label(faculty),
		}
		for _, column := range columns {
			n := len(counts[faculty][column])
			r[column] = domain.Count(n)
			columnTotals[column] += n
		}
		rows = append(rows, r)
	}
	grand := domain.Row{
		domain.HeaderEnrolmentCount: domain.Blank(),
		domain.HeaderTerm:           domain.Label(domain.GrandTotalLabel),
	}
	totalStudents := 0
	for _, column := range columns {
		grand[column] = domain.Count(columnTotals[column])
		totalStudents += columnTotals[column]
	}
	rows = append(rows, grand)

	return &domain.ComparisonTable{
		Title:   fmt.Sprintf("Table 2: Term Breakdown (%d-%d)", y1, y2),
		Headers: append([]string{domain.HeaderEnrolmentCount, domain.HeaderTerm}, columns...),
		Rows:    rows,
		Summary: map[string]interface{}{
			"total_students":  totalStudents,
			"total_faculties": len(faculties),
			"years_covered":   []string{strconv.Itoa(y1), strconv.Itoa(y2)},
			"terms_included":  terms,
		},
		HierarchicalHeaders: &domain.HierarchicalHeaders{Level1: level1, Level2: level2},
	}
}

// buildDistinctStudents produces Table 3: per-faculty academic-level
// demographics across the two compared years. Each faculty gets a header
// row with its distinct totals, one indented row per level holding
// students in either year, and an indented Total row recomputed by
// unioning the faculty's per-level student sets, so a student sitting
// courses at two levels counts once. The Grand Total likewise unions ids
// across the whole table per year rather than summing faculty rows.
func (a *Analyzer) buildDistinctStudents(tbl *dataset.Table, y1, y2 int) *domain.ComparisonTable {
	levels := make([]domain.AcademicLevel, tbl.NumRows())
	assigned := make(map[domain.AcademicLevel]bool)
	faculties := make(map[string]bool)
	for row := 0; row < tbl.NumRows(); row++ {
		levels[row] = a.classifier.Classify(tbl.Cell(row, domain.ColCourseCode).String())
		assigned[levels[row]] = true
		if faculty := tbl.Cell(row, domain.ColFacultyDescr).String(); faculty != "" {
			faculties[faculty] = true
		}
	}

	var orderedLevels []domain.AcademicLevel
	for _, level := range domain.PreferredLevelOrder() {
		if assigned[level] {
			orderedLevels = append(orderedLevels, level)
		}
	}
	a.logger.Debug("academic levels derived from course-code heuristics",
		slog.Any("levels", orderedLevels))

	grand := newStudentSet()
	facultyTotals := make(map[string]*studentSet)
	levelSets := make(map[string]map[domain.AcademicLevel]*studentSet)
	for row := 0; row < tbl.NumRows(); row++ {
		slot := yearSlot(tbl.Cell(row, domain.ColAcademicYear), y1, y2)
		if slot < 0 {
			continue
		}
		id := tbl.Cell(row, domain.ColMaskedID)
		if id.IsAbsent() {
			continue
		}
		grand.add(slot, id.Key())
		faculty := tbl.Cell(row, domain.ColFacultyDescr).String()
		if faculty == "" {
			continue
		}
		totals := facultyTotals[faculty]
		if totals == nil {
			totals = newStudentSet()
			facultyTotals[faculty] = totals
		}
		totals.add(slot, id.Key())
		byLevel := levelSets[faculty]
		if byLevel == nil {
			byLevel = make(map[domain.AcademicLevel]*studentSet)
			levelSets[faculty] = byLevel
		}
		set := byLevel[levels[row]]
		if set == nil {
			set = newStudentSet()
			byLevel[levels[row]] = set
		}
		set.add(slot, id.Key())
	}

	h1 := strconv.Itoa(y1)
	h2 := strconv.Itoa(y2)
	makeRow := func(label string, c1, c2 int) domain.Row {
		return domain.Row{
			domain.HeaderDistinctStudents: domain.Label(label),
			h1:                            domain.Count(c1),
			h2:                            domain.Count(c2),
			domain.HeaderPercentChange:    changeCell(c1, c2),
		}
	}

	var rows []domain.Row
	for _, faculty := range slices.Sorted(maps.Keys(faculties)) {
		c1, c2 := 0, 0
		if totals := facultyTotals[faculty]; totals != nil {
			c1 = totals.count(0)
			c2 = totals.count(1)
		}
		rows = append(rows, makeRow(faculty, c1, c2))

		union := newStudentSet()
		for _, level := range orderedLevels {
			set := levelSets[faculty][level]
			if set == nil {
				continue
			}
			l1 := set.count(0)
			l2 := set.count(1)
			if l1 == 0 && l2 == 0 {
				continue
			}
			rows = append(rows, makeRow("    "+string(level), l1, l2))
			union.merge(set)
		}
		if u1, u2 := union.count(0), union.count(1); u1 > 0 || u2 > 0 {
			rows = append(rows, makeRow("  Total", u1, u2))
		}
	}
	g1 := grand.count(0)
	g2 := grand.count(1)
	rows = append(rows, makeRow(domain.GrandTotalLabel, g1, g2))

	grandPct := changeCell(g1, g2).String()
	levelNames := make([]string, len(orderedLevels))
	for i, level := range orderedLevels {
		levelNames[i] = string(level)
	}
	return &domain.ComparisonTable{
		Title: fmt.Sprintf(
			"Table 3: Multi-Year Student Demographics Analysis (%d vs %d)", y1, y2),
		Headers: []string{domain.HeaderDistinctStudents, h1, h2, domain.HeaderPercentChange},
		Rows:    rows,
		Summary: map[string]interface{}{
			"year_1":           h1,
			"year_2":           h2,
			"total_change":     g2 - g1,
			"total_change_pct": grandPct,
			"levels_included":  levelNames,
			"description": fmt.Sprintf(
				"Year-over-year comparison of Academic Levels (Postgraduate, Undergraduate, Research) between %d and %d for each faculty, showing distinct student counts and enrollment trends",
				y1, y2),
		},
	}
}
