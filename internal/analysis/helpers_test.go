package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// enrollmentHeaders is the five-column shape most table-builder tests use.
var enrollmentHeaders = []string{
	domain.ColMaskedID,
	domain.ColAcademicYear,
	domain.ColTerm,
	domain.ColFacultyDescr,
	domain.ColCourseCode,
}

// enrollment builds one row for enrollmentHeaders.
func enrollment(id, year, term int64, faculty, course string) []dataset.Cell {
	return []dataset.Cell{
		dataset.Int(id),
		dataset.Int(year),
		dataset.Int(term),
		dataset.Text(faculty),
		dataset.Text(course),
	}
}

// cellTable builds a table from typed cells.
func cellTable(t *testing.T, headers []string, rows [][]dataset.Cell) *dataset.Table {
	t.Helper()
	tbl := dataset.New(headers)
	for _, row := range rows {
		require.NoError(t, tbl.AppendRow(row))
	}
	return tbl
}

// renderedRow stringifies a table row in header order, the way exporters
// serialize it.
func renderedRow(row domain.Row, headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = row[h].String()
	}
	return out
}
