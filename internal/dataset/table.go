// Package dataset holds the in-memory table model the cleaning pipeline
// and the analysis engine operate on. A Table is column-ordered with
// nullable cells; pipeline stages that reshape data build a new Table
// rather than mutating their input.
package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered set of named columns over rows of cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New creates an empty table with the given column order. Duplicate
// column names keep the first position.
func New(columns []string) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, name := range columns {
		if _, exists := t.index[name]; exists {
			continue
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, name)
	}
	return t
}

// Columns returns the column names in order. The slice is a copy.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumColumns returns the column count.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// AppendRow adds a row. The table takes ownership of the slice.
func (t *Table) AppendRow(cells []Cell) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, cells)
	return nil
}

// Row returns the backing cell slice for a row. Callers must not retain
// it across table rebuilds.
func (t *Table) Row(i int) []Cell {
	return t.rows[i]
}

// Cell returns the value at (row, column). Missing columns read as absent.
func (t *Table) Cell(row int, column string) Cell {
	i, ok := t.index[column]
	if !ok {
		return Absent()
	}
	return t.rows[row][i]
}

// SetCell overwrites the value at (row, column). Unknown columns are a no-op.
func (t *Table) SetCell(row int, column string, c Cell) {
	if i, ok := t.index[column]; ok {
		t.rows[row][i] = c
	}
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := New(t.columns)
	out.rows = make([][]Cell, len(t.rows))
	for i, row := range t.rows {
		cells := make([]Cell, len(row))
		copy(cells, row)
		out.rows[i] = cells
	}
	return out
}

// Records renders every row as strings for serialization. Absent cells
// become empty strings.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		record := make([]string, len(row))
		for j, c := range row {
			record[j] = c.String()
		}
		out[i] = record
	}
	return out
}

// RowKey returns a comparison key covering every cell in a row. Two rows
// share a key exactly when they are cell-for-cell equal.
func (t *Table) RowKey(row int) string {
	return joinKeys(t.rows[row])
}

// CompositeKey returns a comparison key over the named columns for a row.
// It reports false when any named column is missing from the table.
func (t *Table) CompositeKey(row int, columns []string) (string, bool) {
	cells := make([]Cell, len(columns))
	for j, name := range columns {
		i, ok := t.index[name]
		if !ok {
			return "", false
		}
		cells[j] = t.rows[row][i]
	}
	return joinKeys(cells), true
}

func joinKeys(cells []Cell) string {
	var b strings.Builder
	for j, c := range cells {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(c.Key())
	}
	return b.String()
}

// MissingCount returns the number of absent cells in a column. A missing
// column counts every row as absent.
func (t *Table) MissingCount(column string) int {
	i, ok := t.index[column]
	if !ok {
		return len(t.rows)
	}
	count := 0
	for _, row := range t.rows {
		if row[i].IsAbsent() {
			count++
		}
	}
	return count
}

// DistinctCount returns the number of distinct non-absent values in a column.
func (t *Table) DistinctCount(column string) int {
	i, ok := t.index[column]
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for _, row := range t.rows {
		if row[i].IsAbsent() {
			continue
		}
		seen[row[i].Key()] = struct{}{}
	}
	return len(seen)
}

// ValueCounts returns occurrence counts of the non-absent values in a
// column, keyed by their rendered form.
func (t *Table) ValueCounts(column string) map[string]int {
	counts := make(map[string]int)
	i, ok := t.index[column]
	if !ok {
		return counts
	}
	for _, row := range t.rows {
		if row[i].IsAbsent() {
			continue
		}
		counts[row[i].String()]++
	}
	return counts
}

// DistinctStrings returns the sorted distinct rendered values of a column,
// absent cells excluded.
func (t *Table) DistinctStrings(column string) []string {
	counts := t.ValueCounts(column)
	out := make([]string, 0, len(counts))
	for v := range counts {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
