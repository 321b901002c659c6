package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_Kinds(t *testing.T) {
	tests := []struct {
		name       string
		cell       Cell
		wantKind   CellKind
		wantString string
		wantKey    string
	}{
		{
			name:       "absent cell",
			cell:       Absent(),
			wantKind:   KindAbsent,
			wantString: "",
			wantKey:    "-",
		},
		{
			name:       "integer cell",
			cell:       Int(2025),
			wantKind:   KindInt,
			wantString: "2025",
			wantKey:    "i:2025",
		},
		{
			name:       "text cell",
			cell:       Text("Engineering"),
			wantKind:   KindText,
			wantString: "Engineering",
			wantKey:    "t:Engineering",
		},
		{
			name:       "zero value is absent",
			cell:       Cell{},
			wantKind:   KindAbsent,
			wantString: "",
			wantKey:    "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.cell.Kind())
			assert.Equal(t, tt.wantString, tt.cell.String())
			assert.Equal(t, tt.wantKey, tt.cell.Key())
		})
	}
}

func TestCell_KeyDistinguishesIntFromText(t *testing.T) {
	assert.NotEqual(t, Int(5).Key(), Text("5").Key())
	assert.Equal(t, Int(5).String(), Text("5").String())
}

func TestCell_Accessors(t *testing.T) {
	n, ok := Int(42).Int()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = Text("x").Int()
	assert.False(t, ok)

	s, ok := Text("x").Text()
	require.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = Absent().Text()
	assert.False(t, ok)
	assert.True(t, Absent().IsAbsent())
}

func TestTable_AppendAndLookup(t *testing.T) {
	tbl := New([]string{"MASKED_ID", "FACULTY_DESCR"})

	require.NoError(t, tbl.AppendRow([]Cell{Int(1), Text("Science")}))
	require.NoError(t, tbl.AppendRow([]Cell{Int(2), Absent()}))

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
	assert.True(t, tbl.HasColumn("MASKED_ID"))
	assert.False(t, tbl.HasColumn("GENDER"))

	assert.Equal(t, Int(1), tbl.Cell(0, "MASKED_ID"))
	assert.Equal(t, Text("Science"), tbl.Cell(0, "FACULTY_DESCR"))
	assert.True(t, tbl.Cell(1, "FACULTY_DESCR").IsAbsent())
	assert.True(t, tbl.Cell(0, "MISSING_COLUMN").IsAbsent())
}

func TestTable_AppendRow_LengthMismatch(t *testing.T) {
	tbl := New([]string{"A", "B"})
	err := tbl.AppendRow([]Cell{Int(1)})
	assert.Error(t, err)
}

func TestTable_DuplicateColumnsKeepFirst(t *testing.T) {
	tbl := New([]string{"A", "B", "A"})
	assert.Equal(t, []string{"A", "B"}, tbl.Columns())
}

func TestTable_SetCell(t *testing.T) {
	tbl := New([]string{"A"})
	require.NoError(t, tbl.AppendRow([]Cell{Text(" padded ")}))

	tbl.SetCell(0, "A", Text("padded"))
	assert.Equal(t, Text("padded"), tbl.Cell(0, "A"))

	// unknown column is a no-op
	tbl.SetCell(0, "B", Text("x"))
	assert.Equal(t, 1, tbl.NumColumns())
}

func TestTable_Clone_Independent(t *testing.T) {
	tbl := New([]string{"A"})
	require.NoError(t, tbl.AppendRow([]Cell{Text("original")}))

	clone := tbl.Clone()
	clone.SetCell(0, "A", Text("changed"))

	assert.Equal(t, Text("original"), tbl.Cell(0, "A"))
	assert.Equal(t, Text("changed"), clone.Cell(0, "A"))
}

func TestTable_MissingCount(t *testing.T) {
	tbl := New([]string{"GENDER"})
	require.NoError(t, tbl.AppendRow([]Cell{Text("F")}))
	require.NoError(t, tbl.AppendRow([]Cell{Absent()}))
	require.NoError(t, tbl.AppendRow([]Cell{Absent()}))

	assert.Equal(t, 2, tbl.MissingCount("GENDER"))
	assert.Equal(t, 3, tbl.MissingCount("NOT_THERE"))
}

func TestTable_DistinctCount(t *testing.T) {
	tbl := New([]string{"MASKED_ID"})
	require.NoError(t, tbl.AppendRow([]Cell{Int(1)}))
	require.NoError(t, tbl.AppendRow([]Cell{Int(1)}))
	require.NoError(t, tbl.AppendRow([]Cell{Int(2)}))
	require.NoError(t, tbl.AppendRow([]Cell{Absent()}))

	assert.Equal(t, 2, tbl.DistinctCount("MASKED_ID"))
	assert.Equal(t, 0, tbl.DistinctCount("NOT_THERE"))
}

func TestTable_ValueCounts(t *testing.T) {
	tbl := New([]string{"SES"})
	for _, v := range []string{"High", "Low", "High", "Medium"} {
		require.NoError(t, tbl.AppendRow([]Cell{Text(v)}))
	}
	require.NoError(t, tbl.AppendRow([]Cell{Absent()}))

	counts := tbl.ValueCounts("SES")
	assert.Equal(t, map[string]int{"High": 2, "Low": 1, "Medium": 1}, counts)
	assert.Equal(t, []string{"High", "Low", "Medium"}, tbl.DistinctStrings("SES"))
}

func TestTable_RowKey(t *testing.T) {
	tbl := New([]string{"A", "B"})
	require.NoError(t, tbl.AppendRow([]Cell{Int(1), Text("x")}))
	require.NoError(t, tbl.AppendRow([]Cell{Int(1), Text("x")}))
	require.NoError(t, tbl.AppendRow([]Cell{Int(1), Text("y")}))
	require.NoError(t, tbl.AppendRow([]Cell{Text("1"), Text("x")}))

	assert.Equal(t, tbl.RowKey(0), tbl.RowKey(1))
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(2))
	// same rendering, different kind
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(3))
}

func TestTable_CompositeKey(t *testing.T) {
	tbl := New([]string{"MASKED_ID", "TERM", "COURSE_CODE"})
	require.NoError(t, tbl.AppendRow([]Cell{Int(42), Int(1), Text("ABCD1234")}))
	require.NoError(t, tbl.AppendRow([]Cell{Int(42), Int(1), Text("ABCD1234")}))
	require.NoError(t, tbl.AppendRow([]Cell{Int(42), Int(2), Text("ABCD1234")}))

	k0, ok := tbl.CompositeKey(0, []string{"MASKED_ID", "TERM", "COURSE_CODE"})
	require.True(t, ok)
	k1, ok := tbl.CompositeKey(1, []string{"MASKED_ID", "TERM", "COURSE_CODE"})
	require.True(t, ok)
	k2, ok := tbl.CompositeKey(2, []string{"MASKED_ID", "TERM", "COURSE_CODE"})
	require.True(t, ok)

	assert.Equal(t, k0, k1)
	assert.NotEqual(t, k0, k2)

	_, ok = tbl.CompositeKey(0, []string{"MASKED_ID", "NOT_THERE"})
	assert.False(t, ok)
}
