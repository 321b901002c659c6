package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Canonical table names in an analysis output set.
const (
	TableEnrollmentComparison = "wil_enrollment_comparison"
	TableTermBreakdown        = "term_breakdown"
	TableDistinctStudents     = "distinct_student_count"
)

// Shared table labels.
const (
	HeaderFaculty          = "Faculty"
	HeaderPercentChange    = "% Change"
	HeaderEnrolmentCount   = "Count of WIL Enrolments"
	HeaderTerm             = "Term"
	HeaderDistinctStudents = "Distinct Count of WIL Students"
	GrandTotalLabel        = "Grand Total"
)

// CellValueKind discriminates the payload of a CellValue.
type CellValueKind uint8

const (
	// KindLabel is a row caption such as a faculty name.
	KindLabel CellValueKind = iota
	// KindCount is a distinct-student count.
	KindCount
	// KindPercent is a percentage change rendered to one decimal.
	KindPercent
	// KindSentinel replaces a percentage whose base year count is zero.
	KindSentinel
	// KindBlank is an intentionally empty cell.
	KindBlank
)

// SentinelKind is a non-numeric percentage-change marker.
type SentinelKind string

const (
	// SentinelNew marks a partition with no students in the base year but
	// at least one in the comparison year.
	SentinelNew SentinelKind = "New"
	// SentinelNotApplicable marks a partition empty in both years.
	SentinelNotApplicable SentinelKind = "N/A"
)

// CellValue is a table cell: a count, a percentage, a sentinel, a label,
// or blank. Values stay typed until a serialization boundary renders them.
type CellValue struct {
	kind     CellValueKind
	count    int
	percent  float64
	label    string
	sentinel SentinelKind
}

// Count returns a count cell.
func Count(n int) CellValue {
	return CellValue{kind: KindCount, count: n}
}

// Percent returns a percentage-change cell.
func Percent(v float64) CellValue {
	return CellValue{kind: KindPercent, percent: v}
}

// Sentinel returns a sentinel cell.
func Sentinel(k SentinelKind) CellValue {
	return CellValue{kind: KindSentinel, sentinel: k}
}

// Label returns a caption cell.
func Label(s string) CellValue {
	return CellValue{kind: KindLabel, label: s}
}

// Blank returns an intentionally empty cell.
func Blank() CellValue {
	return CellValue{kind: KindBlank}
}

// Kind returns the cell's discriminator.
func (v CellValue) Kind() CellValueKind {
	return v.kind
}

// AsCount returns the count payload and whether the cell holds one.
func (v CellValue) AsCount() (int, bool) {
	if v.kind != KindCount {
		return 0, false
	}
	return v.count, true
}

// AsPercent returns the percentage payload and whether the cell holds one.
func (v CellValue) AsPercent() (float64, bool) {
	if v.kind != KindPercent {
		return 0, false
	}
	return v.percent, true
}

// IsSentinel reports whether the cell holds the given sentinel.
func (v CellValue) IsSentinel(k SentinelKind) bool {
	return v.kind == KindSentinel && v.sentinel == k
}

// String renders the cell: counts in base 10, percentages with one decimal
// and a trailing %, sentinels verbatim, blanks empty.
func (v CellValue) String() string {
	switch v.kind {
	case KindCount:
		return fmt.Sprintf("%d", v.count)
	case KindPercent:
		return fmt.Sprintf("%.1f%%", v.percent)
	case KindSentinel:
		return string(v.sentinel)
	case KindLabel:
		return v.label
	default:
		return ""
	}
}

// MarshalJSON keeps counts numeric and renders everything else as a string,
// matching the shape consumed by downstream renderers.
func (v CellValue) MarshalJSON() ([]byte, error) {
	if v.kind == KindCount {
		return json.Marshal(v.count)
	}
	return json.Marshal(v.String())
}

// Row maps a header name to its cell value.
type Row map[string]CellValue

// HierarchicalHeaders carries the two-level column captions of the term
// breakdown table: level1 holds the year of each dynamic column, level2 the
// term.
type HierarchicalHeaders struct {
	Level1 []string `json:"level1"`
	Level2 []string `json:"level2"`
}

// ComparisonTable is one canonical analysis table. Built fresh per request
// and never mutated after construction.
type ComparisonTable struct {
	Title               string                 `json:"title"`
	Headers             []string               `json:"headers"`
	Rows                []Row                  `json:"rows"`
	Summary             map[string]interface{} `json:"summary"`
	HierarchicalHeaders *HierarchicalHeaders   `json:"hierarchical_headers,omitempty"`
}

// TableSetMetadata records how an analysis run produced its tables.
type TableSetMetadata struct {
	GenerationDate  time.Time `json:"generation_date"`
	OutputFile      string    `json:"output_file"`
	TotalTables     int       `json:"total_tables"`
	YearsCompared   []int     `json:"years_compared"`
	ComparisonYears []int     `json:"comparison_years"`
}

// TableSet maps table names to their tables, plus run metadata. An empty
// set (no tables, nil metadata) is the non-fatal result of an input with
// fewer than two academic years.
type TableSet struct {
	Tables   map[string]*ComparisonTable
	Metadata *TableSetMetadata
}

// Empty reports whether the set holds no tables.
func (s *TableSet) Empty() bool {
	return s == nil || len(s.Tables) == 0
}

// MarshalJSON flattens the set into one object keyed by table name with a
// _metadata entry, the layout downstream consumers read.
func (s *TableSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.Tables)+1)
	for name, table := range s.Tables {
		out[name] = table
	}
	if s.Metadata != nil {
		out["_metadata"] = s.Metadata
	}
	return json.Marshal(out)
}
