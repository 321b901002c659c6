package domain

// Fixed report identity fields.
const (
	ReportTitle   = "Work Integrated Learning (WIL) Data Analysis Report"
	ReportVersion = "1.0"
)

// ReportMetadata identifies one analysis summary run.
type ReportMetadata struct {
	GenerationDate          string `json:"generation_date"`
	GenerationDateFormatted string `json:"generation_date_formatted"`
	DataSource              string `json:"data_source"`
	TotalRecords            int    `json:"total_records"`
	AcademicYear            string `json:"academic_year"`
	ReportTitle             string `json:"report_title"`
	ReportVersion           string `json:"report_version"`
	IsMultiYearAnalysis     bool   `json:"is_multi_year_analysis"`
	FocusYear               string `json:"focus_year,omitempty"`
}

// KeyStatistics holds the headline distinct counts for the focus year.
type KeyStatistics struct {
	TotalStudents  int    `json:"total_students"`
	TotalFaculties int    `json:"total_faculties"`
	TotalCourses   int    `json:"total_courses"`
	FocusYear      string `json:"focus_year,omitempty"`
}

// BreakdownEntry is a count with its share of the focus-year total.
type BreakdownEntry struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// GenderMetadata qualifies the gender breakdown with its coverage.
type GenderMetadata struct {
	TotalRecordsWithGender int     `json:"total_records_with_gender"`
	TotalLatestYearRecords int     `json:"total_latest_year_records"`
	LatestYearUsed         string  `json:"latest_year_used"`
	GenderDataCoverage     float64 `json:"gender_data_coverage"`
}

// EquityCohortStatistics summarizes participation of equity cohorts.
type EquityCohortStatistics struct {
	FirstGenerationRate         float64        `json:"first_generation_rate"`
	IndigenousParticipationRate float64        `json:"indigenous_participation_rate"`
	SESDistribution             map[string]int `json:"ses_distribution"`
	RegionalDistribution        map[string]int `json:"regional_distribution"`
}

// CDEVStatistics summarizes career-development course participation.
type CDEVStatistics struct {
	TotalCDEVStudents int      `json:"total_cdev_students"`
	TotalCDEVCourses  int      `json:"total_cdev_courses"`
	CDEVCourseList    []string `json:"cdev_course_list"`
}

// AnalysisSummary is the executive summary consumed by document assembly.
// Downstream collaborators must not recompute these numbers.
type AnalysisSummary struct {
	ReportMetadata         ReportMetadata            `json:"report_metadata"`
	KeyStatistics          KeyStatistics             `json:"key_statistics"`
	FacultyBreakdown       map[string]BreakdownEntry `json:"faculty_breakdown"`
	ResidencyBreakdown     map[string]BreakdownEntry `json:"residency_breakdown"`
	GenderBreakdown        map[string]BreakdownEntry `json:"gender_breakdown"`
	GenderMetadata         *GenderMetadata           `json:"gender_metadata,omitempty"`
	EquityCohortStatistics EquityCohortStatistics    `json:"equity_cohort_statistics"`
	CDEVStatistics         CDEVStatistics            `json:"cdev_statistics"`
}
