// Package domain defines the data contract between the pipeline and its
// consumers: source column names, the comparison-table structures, the
// quality report, and the executive analysis summary. Downstream renderers
// must treat these values as the single source of truth and never recompute
// statistics independently.
package domain

// Canonical column headers carried by WIL enrollment extracts.
const (
	ColMaskedID             = "MASKED_ID"
	ColAcademicYear         = "ACADEMIC_YEAR"
	ColTerm                 = "TERM"
	ColTermDescr            = "TERM_DESCR"
	ColAcadProg             = "ACAD_PROG"
	ColCourseID             = "COURSE_ID"
	ColOfferNumber          = "OFFER_NUMBER"
	ColCatalogNumber        = "CATALOG_NUMBER"
	ColCourseCode           = "COURSE_CODE"
	ColCourseName           = "COURSE_NAME"
	ColFaculty              = "FACULTY"
	ColFacultyDescr         = "FACULTY_DESCR"
	ColSchoolName           = "SCHOOL_NAME"
	ColAcademicProgramDescr = "ACADEMIC_PROGRAM_DESCR"
	ColGender               = "GENDER"
	ColResidencyGroup       = "RESIDENCY_GROUP_DESCR"
	ColFirstGeneration      = "FIRST_GENERATION_IND"
	ColATSIGroup            = "ATSI_GROUP"
	ColATSIDesc             = "ATSI_DESC"
	ColSES                  = "SES"
	ColRegionalRemote       = "REGIONAL_REMOTE"
	ColAdmissionPathway     = "ADMISSION_PATHWAY"
	ColCourseAttr           = "CRSE_ATTR"
)

// CourseAttrSentinel is the only expected CRSE_ATTR value: every record in a
// WIL extract should carry the work-integrated-learning course attribute.
const CourseAttrSentinel = "WILC"

// AcademicLevel is the derived study level of a course code.
type AcademicLevel string

const (
	LevelNonAward      AcademicLevel = "Non-Award"
	LevelUndergraduate AcademicLevel = "Undergraduate"
	LevelPostgraduate  AcademicLevel = "Postgraduate"
	LevelResearch      AcademicLevel = "Research"
)

// PreferredLevelOrder returns the display order for academic-level rows in
// the demographics table.
func PreferredLevelOrder() []AcademicLevel {
	return []AcademicLevel{LevelNonAward, LevelPostgraduate, LevelUndergraduate, LevelResearch}
}
