package cleaning

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"wilcli/internal/dataset"
)

// missingArtifacts are literal strings spreadsheet exports emit for absent
// values. They become absent in every column.
var missingArtifacts = map[string]bool{
	"nan":  true,
	"NaN":  true,
	"None": true,
}

// normalize rewrites blank cells and missing-value artifacts as absent,
// then coerces the configured integer columns. Values that refuse the
// coercion become absent and surface as a column-level warning; the run
// never stops over them.
func (c *Cleaner) normalize(tbl *dataset.Table, runCtx *Context) {
	total := blankToAbsent(tbl)
	runCtx.Log("Missing Value Handling",
		fmt.Sprintf("Converted blank cells to absent, total missing: %d", total))

	for _, column := range c.config.IntegerFields {
		if !tbl.HasColumn(column) {
			continue
		}
		failed := coerceIntColumn(tbl, column)
		runCtx.Log("Data Type Conversion",
			fmt.Sprintf("%s converted to integer type", column))
		if failed > 0 {
			runCtx.Warn(fmt.Sprintf("%s: %d non-numeric values coerced to absent", column, failed))
		}
	}
}

func blankToAbsent(tbl *dataset.Table) int {
	columns := tbl.Columns()
	total := 0
	for row := 0; row < tbl.NumRows(); row++ {
		for _, column := range columns {
			cell := tbl.Cell(row, column)
			if cell.IsAbsent() {
				total++
				continue
			}
			text, ok := cell.Text()
			if !ok {
				continue
			}
			if strings.TrimSpace(text) == "" || missingArtifacts[text] {
				tbl.SetCell(row, column, dataset.Absent())
				total++
			}
		}
	}
	return total
}

// coerceIntColumn converts every present cell in a column to an integer,
// accepting integral floats the way spreadsheet exports produce them
// ("2021.0"). It returns how many cells resisted the conversion.
func coerceIntColumn(tbl *dataset.Table, column string) int {
	failed := 0
	for row := 0; row < tbl.NumRows(); row++ {
		text, ok := tbl.Cell(row, column).Text()
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			tbl.SetCell(row, column, dataset.Int(n))
			continue
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && f == math.Trunc(f) {
			tbl.SetCell(row, column, dataset.Int(int64(f)))
			continue
		}
		tbl.SetCell(row, column, dataset.Absent())
		failed++
	}
	return failed
}
