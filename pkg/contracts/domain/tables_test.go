package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellValue_String(t *testing.T) {
	tests := []struct {
		name string
		cell CellValue
		want string
	}{
		{name: "count", cell: Count(1234), want: "1234"},
		{name: "positive percent one decimal", cell: Percent(50.0), want: "50.0%"},
		{name: "negative percent", cell: Percent(-16.666), want: "-16.7%"},
		{name: "rounding up", cell: Percent(33.35), want: "33.4%"},
		{name: "new sentinel", cell: Sentinel(SentinelNew), want: "New"},
		{name: "not applicable sentinel", cell: Sentinel(SentinelNotApplicable), want: "N/A"},
		{name: "label", cell: Label("Faculty of Science"), want: "Faculty of Science"},
		{name: "blank", cell: Blank(), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.String())
		})
	}
}

func TestCellValue_Accessors(t *testing.T) {
	n, ok := Count(7).AsCount()
	require.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = Percent(1).AsCount()
	assert.False(t, ok)

	p, ok := Percent(12.5).AsPercent()
	require.True(t, ok)
	assert.InDelta(t, 12.5, p, 1e-9)

	assert.True(t, Sentinel(SentinelNew).IsSentinel(SentinelNew))
	assert.False(t, Sentinel(SentinelNew).IsSentinel(SentinelNotApplicable))
	assert.False(t, Count(1).IsSentinel(SentinelNew))
}

func TestCellValue_MarshalJSON(t *testing.T) {
	row := Row{
		"Faculty":  Label("Science"),
		"2024":     Count(10),
		"2025":     Count(15),
		"% Change": Percent(50.0),
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// counts stay numeric, percentages become strings
	assert.Equal(t, float64(10), decoded["2024"])
	assert.Equal(t, float64(15), decoded["2025"])
	assert.Equal(t, "50.0%", decoded["% Change"])
	assert.Equal(t, "Science", decoded["Faculty"])
}

func TestCellValue_SentinelJSON(t *testing.T) {
	data, err := json.Marshal(Sentinel(SentinelNew))
	require.NoError(t, err)
	assert.Equal(t, `"New"`, string(data))

	data, err = json.Marshal(Sentinel(SentinelNotApplicable))
	require.NoError(t, err)
	assert.Equal(t, `"N/A"`, string(data))
}

func TestTableSet_MarshalJSON(t *testing.T) {
	set := &TableSet{
		Tables: map[string]*ComparisonTable{
			TableEnrollmentComparison: {
				Title:   "Table 1: Year Comparison with % Change",
				Headers: []string{"Faculty", "2024", "2025", "% Change"},
				Rows: []Row{
					{"Faculty": Label("Science"), "2024": Count(10), "2025": Count(15), "% Change": Percent(50.0)},
				},
				Summary: map[string]interface{}{"year_1": 2024, "year_2": 2025},
			},
		},
		Metadata: &TableSetMetadata{
			GenerationDate:  time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC),
			OutputFile:      "analysis_tables_20250825.json",
			TotalTables:     1,
			YearsCompared:   []int{2024, 2025},
			ComparisonYears: []int{2024, 2025},
		},
	}

	data, err := json.Marshal(set)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Contains(t, decoded, TableEnrollmentComparison)
	assert.Contains(t, decoded, "_metadata")

	var md TableSetMetadata
	require.NoError(t, json.Unmarshal(decoded["_metadata"], &md))
	assert.Equal(t, 1, md.TotalTables)
	assert.Equal(t, []int{2024, 2025}, md.ComparisonYears)
}

func TestTableSet_Empty(t *testing.T) {
	assert.True(t, (&TableSet{}).Empty())
	assert.True(t, (*TableSet)(nil).Empty())

	set := &TableSet{Tables: map[string]*ComparisonTable{"t": {}}}
	assert.False(t, set.Empty())
}

func TestPreferredLevelOrder(t *testing.T) {
	order := PreferredLevelOrder()

	require.Len(t, order, 4)
	assert.Equal(t, LevelNonAward, order[0])
	assert.Equal(t, LevelPostgraduate, order[1])
	assert.Equal(t, LevelUndergraduate, order[2])
	assert.Equal(t, LevelResearch, order[3])
}
