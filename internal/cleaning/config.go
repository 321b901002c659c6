package cleaning

import (
	"regexp"

	"wilcli/pkg/contracts/domain"
)

// CategoricalRule pairs a column with the values it is expected to hold.
// The rules validate, never reject: unexpected values stay in the data
// and surface as report warnings.
type CategoricalRule struct {
	Column   string
	Expected []string
}

// Config carries the domain rule tables the pipeline stages consult.
// DefaultConfig matches the WIL extract schema; callers with a different
// schema swap in their own tables without touching the pipeline.
type Config struct {
	// IntegerFields are coerced to nullable integers during normalization.
	IntegerFields []string
	// TextFields are trimmed during text cleaning.
	TextFields []string
	// CategoricalRules are checked in order against observed values.
	CategoricalRules []CategoricalRule
	// BusinessKey identifies one enrollment: the same student sitting
	// the same course in the same term.
	BusinessKey []string
	// CoursePattern is the canonical course-code shape.
	CoursePattern *regexp.Regexp
}

// DefaultConfig returns the rule tables for WIL enrollment extracts.
func DefaultConfig() *Config {
	return &Config{
		IntegerFields: []string{
			domain.ColAcademicYear,
			domain.ColTerm,
			domain.ColAcadProg,
			domain.ColCourseID,
			domain.ColOfferNumber,
			domain.ColCatalogNumber,
			domain.ColMaskedID,
		},
		TextFields: []string{
			domain.ColFacultyDescr,
			domain.ColSchoolName,
			domain.ColCourseName,
			domain.ColTermDescr,
			domain.ColAcademicProgramDescr,
			domain.ColATSIDesc,
			domain.ColRegionalRemote,
			domain.ColAdmissionPathway,
			domain.ColCourseCode,
		},
		CategoricalRules: []CategoricalRule{
			{Column: domain.ColResidencyGroup, Expected: []string{"Local", "International"}},
			{Column: domain.ColFirstGeneration, Expected: []string{"First Generation", "Non First Generation"}},
			{Column: domain.ColATSIGroup, Expected: []string{"Indigenous", "Non Indigenous"}},
			{Column: domain.ColSES, Expected: []string{"High", "Medium", "Low", "Unknown"}},
			{Column: domain.ColGender, Expected: []string{"M", "F", "U"}},
			{Column: domain.ColCourseAttr, Expected: []string{domain.CourseAttrSentinel}},
		},
		BusinessKey: []string{
			domain.ColMaskedID,
			domain.ColTerm,
			domain.ColCourseCode,
		},
		CoursePattern: regexp.MustCompile(`^[A-Z]{4}[0-9]{4}$`),
	}
}

// IsIntegerField reports whether the named column is integer-typed.
func (c *Config) IsIntegerField(column string) bool {
	for _, f := range c.IntegerFields {
		if f == column {
			return true
		}
	}
	return false
}

// ExpectedValues returns the expected value set for a categorical column.
func (c *Config) ExpectedValues(column string) ([]string, bool) {
	for _, rule := range c.CategoricalRules {
		if rule.Column == column {
			return rule.Expected, true
		}
	}
	return nil, false
}
