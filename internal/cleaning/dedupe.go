package cleaning

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

var trailingCatalog = regexp.MustCompile(`[0-9]{4}$`)

// dedupe removes exact duplicate rows, then duplicate enrollments under
// the business key, keeping the first occurrence of each. It finishes
// with the read-only consistency checks and returns the surviving table.
func (c *Cleaner) dedupe(tbl *dataset.Table, runCtx *Context) *dataset.Table {
	tbl, removed := dropExactDuplicates(tbl)
	if removed > 0 {
		runCtx.addExactDuplicates(removed)
		runCtx.Log("Duplicate Records",
			fmt.Sprintf("Removed %d completely duplicate rows", removed))
	}

	tbl, removed = dropKeyDuplicates(tbl, c.config.BusinessKey)
	if removed > 0 {
		runCtx.addKeyDuplicates(removed)
		runCtx.Log("Business Duplicate Records",
			fmt.Sprintf("Removed %d duplicate records for same student/term/course", removed))
	}

	c.checkConsistency(tbl, runCtx)
	return tbl
}

// dropExactDuplicates keeps the first of every run of cell-for-cell equal
// rows. Row slices are shared with the source table, which is discarded.
func dropExactDuplicates(tbl *dataset.Table) (*dataset.Table, int) {
	seen := make(map[string]bool, tbl.NumRows())
	out := dataset.New(tbl.Columns())
	removed := 0
	for row := 0; row < tbl.NumRows(); row++ {
		key := tbl.RowKey(row)
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		_ = out.AppendRow(tbl.Row(row))
	}
	if removed == 0 {
		return tbl, 0
	}
	return out, removed
}

// dropKeyDuplicates deduplicates on the business key. Tables missing any
// key column pass through untouched; rows whose key cells are absent
// compare equal to each other, matching how the duplicates arrive in
// practice.
func dropKeyDuplicates(tbl *dataset.Table, key []string) (*dataset.Table, int) {
	if len(key) == 0 {
		return tbl, 0
	}
	for _, column := range key {
		if !tbl.HasColumn(column) {
			return tbl, 0
		}
	}
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

// checkConsistency runs the cross-field checks. Findings become warnings
// and one consolidated log entry; the data is never modified.
func (c *Cleaner) checkConsistency(tbl *dataset.Table, runCtx *Context) {
	var issues []string
	issues = append(issues, facultyMappingIssues(tbl)...)
	issues = append(issues, c.courseCodeIssues(tbl)...)
	issues = append(issues, courseAttributeIssues(tbl)...)
	issues = append(issues, catalogNumberIssues(tbl)...)

	for _, issue := range issues {
		runCtx.Warn(issue)
	}
	if len(issues) > 0 {
		runCtx.Log("Data Consistency Check", strings.Join(issues, "; "))
		return
	}
	runCtx.Log("Data Consistency Check", "Data consistency check passed")
}

// facultyMappingIssues reports faculty codes that map to more than one
// faculty description.
func facultyMappingIssues(tbl *dataset.Table) []string {
	if !tbl.HasColumn(domain.ColFaculty) || !tbl.HasColumn(domain.ColFacultyDescr) {
		return nil
	}
	descrs := make(map[string]map[string]bool)
	for row := 0; row < tbl.NumRows(); row++ {
		code := tbl.Cell(row, domain.ColFaculty)
		descr := tbl.Cell(row, domain.ColFacultyDescr)
		if code.IsAbsent() || descr.IsAbsent() {
			continue
		}
		k := code.String()
		if descrs[k] == nil {
			descrs[k] = make(map[string]bool)
		}
		descrs[k][descr.String()] = true
	}
	var issues []string
	for _, code := range slices.Sorted(maps.Keys(descrs)) {
		if n := len(descrs[code]); n > 1 {
			issues = append(issues, fmt.Sprintf("%s %q maps to %d distinct %s values",
				domain.ColFaculty, code, n, domain.ColFacultyDescr))
		}
	}
	return issues
}

// courseCodeIssues counts course codes that do not match the canonical
// four letters plus four digits shape. Absent codes count as invalid.
func (c *Cleaner) courseCodeIssues(tbl *dataset.Table) []string {
	if !tbl.HasColumn(domain.ColCourseCode) || c.config.CoursePattern == nil {
		return nil
	}
	invalid := 0
	for row := 0; row < tbl.NumRows(); row++ {
		text, ok := tbl.Cell(row, domain.ColCourseCode).Text()
		if !ok || !c.config.CoursePattern.MatchString(text) {
			invalid++
		}
	}
	if invalid == 0 {
		return nil
	}
	return []string{fmt.Sprintf("Found %d %s with incorrect format", invalid, domain.ColCourseCode)}
}

// courseAttributeIssues reports any course attribute other than the WIL
// marker, with per-value counts.
func courseAttributeIssues(tbl *dataset.Table) []string {
	if !tbl.HasColumn(domain.ColCourseAttr) {
		return nil
	}
	counts := tbl.ValueCounts(domain.ColCourseAttr)
	delete(counts, domain.CourseAttrSentinel)
	if len(counts) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("Found non-%s %s values: %s",
		domain.CourseAttrSentinel, domain.ColCourseAttr, formatCounts(counts))}
}

// catalogNumberIssues counts rows whose catalog number disagrees with the
// trailing digits of the course code. Rows missing both sides are fine;
// rows with only one side present count as mismatches.
func catalogNumberIssues(tbl *dataset.Table) []string {
	if !tbl.HasColumn(domain.ColCourseCode) || !tbl.HasColumn(domain.ColCatalogNumber) {
		return nil
	}
	mismatches := 0
	for row := 0; row < tbl.NumRows(); row++ {
		catalog := tbl.Cell(row, domain.ColCatalogNumber)
		var digits string
		if code, ok := tbl.Cell(row, domain.ColCourseCode).Text(); ok {
			digits = trailingCatalog.FindString(code)
		}
		if catalog.IsAbsent() && digits == "" {
			continue
		}
		catalogInt, ok := catalog.Int()
		if !ok || digits == "" {
			mismatches++
			continue
		}
		expected, err := strconv.Atoi(digits)
		if err != nil || catalogInt != int64(expected) {
			mismatches++
		}
	}
	if mismatches == 0 {
		return nil
	}
	return []string{fmt.Sprintf("Found %d records with %s-%s inconsistency",
		mismatches, domain.ColCourseCode, domain.ColCatalogNumber)}
}
