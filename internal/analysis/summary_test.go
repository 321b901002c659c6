package analysis

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

var summaryHeaders = []string{
	domain.ColMaskedID,
	domain.ColAcademicYear,
	domain.ColFacultyDescr,
	domain.ColCourseCode,
	domain.ColGender,
	domain.ColResidencyGroup,
	domain.ColFirstGeneration,
	domain.ColATSIGroup,
	domain.ColSES,
	domain.ColRegionalRemote,
}

func summaryRow(id, year int64, faculty, course, gender, residency, firstGen, atsi, ses, regional string) []dataset.Cell {
	return []dataset.Cell{
		dataset.Int(id),
		dataset.Int(year),
		dataset.Text(faculty),
		dataset.Text(course),
		dataset.Text(gender),
		dataset.Text(residency),
		dataset.Text(firstGen),
		dataset.Text(atsi),
		dataset.Text(ses),
		dataset.Text(regional),
	}
}

func TestAnalyzer_BuildSummary_MultiYear(t *testing.T) {
	tbl := cellTable(t, summaryHeaders, [][]dataset.Cell{
		summaryRow(1, 2024, "Engineering", "COMP1001", "M", "Local", "First Generation", "Non Indigenous", "High", "Metro"),
		summaryRow(2, 2024, "Engineering", "COMP1001", "F", "Local", "Non First Generation", "Indigenous", "Low", "Regional"),
		summaryRow(3, 2024, "Science", "CDEV3001", "F", "International", "Non First Generation", "Non Indigenous", "Medium", "Metro"),
		summaryRow(4, 2024, "Science", "MATH1002", "U", "Local", "First Generation", "Non Indigenous", "Unknown", "Metro"),
		summaryRow(9, 2023, "Engineering", "COMP1001", "M", "Local", "Non First Generation", "Non Indigenous", "High", "Metro"),
		summaryRow(3, 2023, "Science", "CDEV3001", "F", "International", "Non First Generation", "Non Indigenous", "Medium", "Metro"),
	})

	analyzer := NewAnalyzer(slog.Default(), nil)
	summary := analyzer.BuildSummary(context.Background(), tbl, "WIL_2023.csv, WIL_2024.csv")

	meta := summary.ReportMetadata
	assert.Equal(t, "WIL_2023.csv, WIL_2024.csv", meta.DataSource)
	assert.Equal(t, 6, meta.TotalRecords)
	assert.Equal(t, "2024", meta.AcademicYear)
	assert.Equal(t, domain.ReportTitle, meta.ReportTitle)
	assert.Equal(t, domain.ReportVersion, meta.ReportVersion)
	assert.True(t, meta.IsMultiYearAnalysis)
	assert.Equal(t, "2024", meta.FocusYear)

	// headline numbers cover the latest year only
	assert.Equal(t, 4, summary.KeyStatistics.TotalStudents)
	assert.Equal(t, 2, summary.KeyStatistics.TotalFaculties)
	assert.Equal(t, 3, summary.KeyStatistics.TotalCourses)

	require.Contains(t, summary.FacultyBreakdown, "Engineering")
	assert.Equal(t, domain.BreakdownEntry{Count: 2, Percentage: 50.0}, summary.FacultyBreakdown["Engineering"])
	assert.Equal(t, domain.BreakdownEntry{Count: 2, Percentage: 50.0}, summary.FacultyBreakdown["Science"])

	assert.Equal(t, domain.BreakdownEntry{Count: 3, Percentage: 75.0}, summary.ResidencyBreakdown["Local"])
	assert.Equal(t, domain.BreakdownEntry{Count: 1, Percentage: 25.0}, summary.ResidencyBreakdown["International"])

	assert.Equal(t, domain.BreakdownEntry{Count: 2, Percentage: 50.0}, summary.GenderBreakdown["F"])
	assert.Equal(t, domain.BreakdownEntry{Count: 1, Percentage: 25.0}, summary.GenderBreakdown["M"])
	assert.Equal(t, domain.BreakdownEntry{Count: 1, Percentage: 25.0}, summary.GenderBreakdown["U"])
	require.NotNil(t, summary.GenderMetadata)
	assert.Equal(t, 4, summary.GenderMetadata.TotalRecordsWithGender)
	assert.Equal(t, 4, summary.GenderMetadata.TotalLatestYearRecords)
	assert.Equal(t, "2024", summary.GenderMetadata.LatestYearUsed)
	assert.Equal(t, 100.0, summary.GenderMetadata.GenderDataCoverage)

	equity := summary.EquityCohortStatistics
	assert.Equal(t, 50.0, equity.FirstGenerationRate)
	assert.Equal(t, 25.0, equity.IndigenousParticipationRate)
	// distributions cover every year, not just the focus year
	assert.Equal(t, map[string]int{"High": 2, "Low": 1, "Medium": 2, "Unknown": 1}, equity.SESDistribution)
	assert.Equal(t, map[string]int{"Metro": 5, "Regional": 1}, equity.RegionalDistribution)

	cdev := summary.CDEVStatistics
	assert.Equal(t, 1, cdev.TotalCDEVStudents)
	assert.Equal(t, 1, cdev.TotalCDEVCourses)
	assert.Equal(t, []string{"CDEV3001"}, cdev.CDEVCourseList)
}

func TestAnalyzer_BuildSummary_SingleYear(t *testing.T) {
	tbl := cellTable(t, summaryHeaders, [][]dataset.Cell{
		summaryRow(1, 2024, "Engineering", "COMP1001", "M", "Local", "First Generation", "Non Indigenous", "High", "Metro"),
		summaryRow(2, 2024, "Science", "MATH1002", "F", "Local", "Non First Generation", "Indigenous", "Low", "Regional"),
	})

	summary := NewAnalyzer(slog.Default(), nil).BuildSummary(context.Background(), tbl, "WIL_2024.csv")

	assert.False(t, summary.ReportMetadata.IsMultiYearAnalysis)
	assert.Empty(t, summary.ReportMetadata.FocusYear)
	assert.Equal(t, "2024", summary.ReportMetadata.AcademicYear)
	assert.Equal(t, 2, summary.KeyStatistics.TotalStudents)
	assert.Empty(t, summary.KeyStatistics.FocusYear)
}

func TestAnalyzer_BuildSummary_NoGenderData(t *testing.T) {
	tbl := cellTable(t, enrollmentHeaders, [][]dataset.Cell{
		enrollment(1, 2024, 1, "Engineering", "COMP1001"),
	})

	summary := NewAnalyzer(slog.Default(), nil).BuildSummary(context.Background(), tbl, "test")

	assert.Equal(t, map[string]domain.BreakdownEntry{
		"Not Available": {Count: 0, Percentage: 0},
	}, summary.GenderBreakdown)
	assert.Nil(t, summary.GenderMetadata)
}

func TestAnalyzer_BuildSummary_NoCDEVCourses(t *testing.T) {
	tbl := cellTable(t, enrollmentHeaders, [][]dataset.Cell{
		enrollment(1, 2024, 1, "Engineering", "COMP1001"),
	})

	summary := NewAnalyzer(slog.Default(), nil).BuildSummary(context.Background(), tbl, "test")

	assert.Zero(t, summary.CDEVStatistics.TotalCDEVStudents)
	assert.Zero(t, summary.CDEVStatistics.TotalCDEVCourses)
	assert.Equal(t, []string{}, summary.CDEVStatistics.CDEVCourseList)
}
