package analysis

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// comparisonFixture spans 2024 and 2025 with a faculty new in 2025 and a
// student enrolled twice in the same year.
func comparisonFixture(t *testing.T) *dataset.Table {
	t.Helper()
	return cellTable(t, enrollmentHeaders, [][]dataset.Cell{
		enrollment(1, 2024, 1, "Science", "COMP1001"),
		enrollment(1, 2024, 2, "Science", "COMP1002"),
		enrollment(2, 2024, 1, "Science", "COMP1001"),
		enrollment(1, 2025, 1, "Science", "COMP1001"),
		enrollment(2, 2025, 1, "Science", "COMP1001"),
		enrollment(3, 2025, 1, "Science", "COMP1001"),
		enrollment(9, 2025, 1, "Arts", "ARTS2001"),
	})
}

func TestAnalyzer_BuildAll(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	set := a.BuildAll(context.Background(), comparisonFixture(t))

	require.False(t, set.Empty())
	require.Len(t, set.Tables, 3)
	assert.Contains(t, set.Tables, domain.TableEnrollmentComparison)
	assert.Contains(t, set.Tables, domain.TableTermBreakdown)
	assert.Contains(t, set.Tables, domain.TableDistinctStudents)

	meta := set.Metadata
	require.NotNil(t, meta)
	assert.Equal(t, 3, meta.TotalTables)
	assert.Equal(t, []int{2024, 2025}, meta.YearsCompared)
	assert.Equal(t, []int{2024, 2025}, meta.ComparisonYears)
	assert.True(t, strings.HasPrefix(meta.OutputFile, "analysis_tables_"))
	assert.True(t, strings.HasSuffix(meta.OutputFile, ".json"))
	assert.False(t, meta.GenerationDate.IsZero())
}

func TestAnalyzer_BuildAll_SingleYear(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	tbl := cellTable(t, enrollmentHeaders, [][]dataset.Cell{
		enrollment(1, 2025, 1, "Science", "COMP1001"),
		enrollment(2, 2025, 1, "Science", "COMP1001"),
	})

	set := a.BuildAll(context.Background(), tbl)

	assert.True(t, set.Empty())
	assert.Nil(t, set.Metadata)
}

func TestAnalyzer_BuildAll_ComparesTwoMostRecentYears(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	tbl := cellTable(t, enrollmentHeaders, [][]dataset.Cell{
		enrollment(1, 2023, 1, "Science", "COMP1001"),
		enrollment(2, 2024, 1, "Science", "COMP1001"),
		enrollment(3, 2025, 1, "Science", "COMP1001"),
	})

	set := a.BuildAll(context.Background(), tbl)

	require.False(t, set.Empty())
	assert.Equal(t, []int{2023, 2024, 2025}, set.Metadata.YearsCompared)
	assert.Equal(t, []int{2024, 2025}, set.Metadata.ComparisonYears)
	table := set.Tables[domain.TableEnrollmentComparison]
	require.NotNil(t, table)
	assert.Equal(t, []string{domain.HeaderFaculty, "2024", "2025", domain.HeaderPercentChange}, table.Headers)
}

func TestBuildEnrollmentComparison(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	table := a.buildEnrollmentComparison(comparisonFixture(t), 2024, 2025)

	require.NotNil(t, table)
	assert.Equal(t, "Table 1: Year Comparison with % Change", table.Title)
	assert.Equal(t, []string{domain.HeaderFaculty, "2024", "2025", domain.HeaderPercentChange}, table.Headers)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Arts", "0", "1", "New"}, renderedRow(table.Rows[0], table.Headers))
	assert.Equal(t, []string{"Science", "2", "3", "50.0%"}, renderedRow(table.Rows[1], table.Headers))
	assert.Equal(t, []string{"Grand Total", "2", "4", "100.0%"}, renderedRow(table.Rows[2], table.Headers))

	// Counts stay numeric until serialization.
	n, ok := table.Rows[1]["2025"].AsCount()
	require.True(t, ok)
	assert.Equal(t, 3, n)

	assert.Equal(t, "2024", table.Summary["year_1"])
	assert.Equal(t, "2025", table.Summary["year_2"])
	assert.Equal(t, 2, table.Summary["total_change"])
	assert.Equal(t, "100.0%", table.Summary["total_change_pct"])
	assert.Equal(t,
		"Overall enrollment changed by 2 students (100.0%) from 2024 to 2025",
		table.Summary["change_description"])
}

func TestBuildEnrollmentComparison_DisappearedFaculty(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	tbl := cellTable(t, enrollmentHeaders, [][]dataset.Cell{
		enrollment(1, 2024, 1, "Law", "LAWS1001"),
		enrollment(2, 2025, 1, "Science", "COMP1001"),
	})

	table := a.buildEnrollmentComparison(tbl, 2024, 2025)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Law", "1", "0", "-100.0%"}, renderedRow(table.Rows[0], table.Headers))
	assert.Equal(t, []string{"Science", "0", "1", "New"}, renderedRow(table.Rows[1], table.Headers))
	assert.Equal(t, []string{"Grand Total", "1", "1", "0.0%"}, renderedRow(table.Rows[2], table.Headers))
}

func TestBuildTermBreakdown(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	table := a.buildTermBreakdown(comparisonFixture(t), 2024, 2025)

	require.NotNil(t, table)
	assert.Equal(t, "Table 2: Term Breakdown (2024-2025)", table.Title)
	assert.Equal(t, []string{
		domain.HeaderEnrolmentCount, domain.HeaderTerm,
		"2024 1", "2024 2", "2025 1", "2025 2",
	}, table.Headers)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"", "Arts", "0", "0", "1", "0"}, renderedRow(table.Rows[0], table.Headers))
	assert.Equal(t, []string{"", "Science", "2", "1", "3", "0"}, renderedRow(table.Rows[1], table.Headers))
	assert.Equal(t, []string{"", "Grand Total", "2", "1", "4", "0"}, renderedRow(table.Rows[2], table.Headers))

	require.NotNil(t, table.HierarchicalHeaders)
	assert.Equal(t, []string{
		domain.HeaderEnrolmentCount, domain.HeaderTerm, "2024", "2024", "2025", "2025",
	}, table.HierarchicalHeaders.Level1)
	assert.Equal(t, []string{"", "", "1", "2", "1", "2"}, table.HierarchicalHeaders.Level2)

	assert.Equal(t, 7, table.Summary["total_students"])
	assert.Equal(t, 2, table.Summary["total_faculties"])
	assert.Equal(t, []string{"2024", "2025"}, table.Summary["years_covered"])
	assert.Equal(t, []int{1, 2}, table.Summary["terms_included"])
}

func TestBuildTermBreakdown_NoTermColumn(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	headers := []string{domain.ColMaskedID, domain.ColAcademicYear, domain.ColFacultyDescr}
	tbl := cellTable(t, headers, [][]dataset.Cell{
		{dataset.Int(1), dataset.Int(2024), dataset.Text("Science")},
		{dataset.Int(2), dataset.Int(2025), dataset.Text("Science")},
	})

	assert.Nil(t, a.buildTermBreakdown(tbl, 2024, 2025))

	// BuildAll simply omits the table rather than failing.
	set := a.BuildAll(context.Background(), tbl)
	require.False(t, set.Empty())
	assert.NotContains(t, set.Tables, domain.TableTermBreakdown)
	assert.Equal(t, 2, set.Metadata.TotalTables)
}

// demographicsFixture puts student 1 in two levels in 2024 and student 3
// in two faculties in 2025, so the Total and Grand Total union rules have
// something to collapse.
func demographicsFixture(t *testing.T) *dataset.Table {
	t.Helper()
	return cellTable(t, enrollmentHeaders, [][]dataset.Cell{
		enrollment(1, 2024, 1, "Science", "COMP1001"),
		enrollment(1, 2024, 1, "Science", "COMP9001"),
		enrollment(2, 2025, 1, "Science", "COMP1001"),
		enrollment(3, 2025, 1, "Science", "RESM8080"),
		enrollment(3, 2024, 1, "Arts", "ARTS2001"),
		enrollment(4, 2025, 1, "Arts", "CDEV3001"),
		enrollment(3, 2025, 1, "Arts", "ARTS2001"),
	})
}

func TestBuildDistinctStudents(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	table := a.buildDistinctStudents(demographicsFixture(t), 2024, 2025)

	require.NotNil(t, table)
	assert.Equal(t, "Table 3: Multi-Year Student Demographics Analysis (2024 vs 2025)", table.Title)
	assert.Equal(t, []string{
		domain.HeaderDistinctStudents, "2024", "2025", domain.HeaderPercentChange,
	}, table.Headers)

	want := [][]string{
		{"Arts", "1", "2", "100.0%"},
		{"    Undergraduate", "1", "2", "100.0%"},
		{"  Total", "1", "2", "100.0%"},
		{"Science", "1", "2", "100.0%"},
		{"    Postgraduate", "1", "0", "-100.0%"},
		{"    Undergraduate", "1", "1", "0.0%"},
		{"    Research", "0", "1", "New"},
		{"  Total", "1", "2", "100.0%"},
		{"Grand Total", "2", "3", "50.0%"},
	}
	require.Len(t, table.Rows, len(want))
	for i, row := range table.Rows {
		assert.Equal(t, want[i], renderedRow(row, table.Headers), "row %d", i)
	}

	assert.Equal(t, "2024", table.Summary["year_1"])
	assert.Equal(t, "2025", table.Summary["year_2"])
	assert.Equal(t, 1, table.Summary["total_change"])
	assert.Equal(t, "50.0%", table.Summary["total_change_pct"])
	assert.Equal(t, []string{"Postgraduate", "Undergraduate", "Research"},
		table.Summary["levels_included"])
	description, ok := table.Summary["description"].(string)
	require.True(t, ok)
	assert.Contains(t, description, "between 2024 and 2025")
}

// Science 2024 has one student across two levels: the per-level counts sum
// to 2 but the Total row must report 1 distinct student.
func TestBuildDistinctStudents_TotalUnionsLevels(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	table := a.buildDistinctStudents(demographicsFixture(t), 2024, 2025)

	var scienceTotal []string
	for i, row := range table.Rows {
		if row[domain.HeaderDistinctStudents].String() == "Science" {
			// The faculty block runs until its Total row.
			for _, candidate := range table.Rows[i+1:] {
				if candidate[domain.HeaderDistinctStudents].String() == "  Total" {
					scienceTotal = renderedRow(candidate, table.Headers)
					break
				}
			}
			break
		}
	}
	require.NotNil(t, scienceTotal)
	assert.Equal(t, []string{"  Total", "1", "2", "100.0%"}, scienceTotal)
}

// Student 3 sits in Arts and Science in 2025: faculty totals sum to 4 but
// the Grand Total must report 3 distinct students.
func TestBuildDistinctStudents_GrandTotalUnionsFaculties(t *testing.T) {
	a := NewAnalyzer(slog.Default(), nil)
	table := a.buildDistinctStudents(demographicsFixture(t), 2024, 2025)

	grand := renderedRow(table.Rows[len(table.Rows)-1], table.Headers)
	assert.Equal(t, []string{"Grand Total", "2", "3", "50.0%"}, grand)
}

func TestChangeCell(t *testing.T) {
	tests := []struct {
		name string
		c1   int
		c2   int
		want string
	}{
		{name: "growth", c1: 10, c2: 15, want: "50.0%"},
		{name: "decline", c1: 4, c2: 3, want: "-25.0%"},
		{name: "flat", c1: 5, c2: 5, want: "0.0%"},
		{name: "fractional", c1: 3, c2: 4, want: "33.3%"},
		{name: "new", c1: 0, c2: 3, want: "New"},
		{name: "empty both years", c1: 0, c2: 0, want: "N/A"},
		{name: "disappeared", c1: 7, c2: 0, want: "-100.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, changeCell(tt.c1, tt.c2).String())
		})
	}
}
