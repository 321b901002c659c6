package cleaning

import (
	"fmt"

	"wilcli/internal/dataset"
)

// fillMissing replaces absent cells column by column: integer columns get
// 0, everything else gets "Unknown". Columns with nothing to fill record
// no log entry, so rerunning the fill over already filled data leaves the
// action log untouched.
func (c *Cleaner) fillMissing(tbl *dataset.Table, runCtx *Context) {
	total := 0
	for _, column := range tbl.Columns() {
		missing := tbl.MissingCount(column)
		if missing == 0 {
			continue
		}

		var fill dataset.Cell
		var detail string
		if c.config.IsIntegerField(column) {
			fill = dataset.Int(0)
			detail = fmt.Sprintf("%s: filled %d missing values with 0", column, missing)
		} else {
			fill = dataset.Text("Unknown")
			detail = fmt.Sprintf("%s: filled %d missing values with 'Unknown'", column, missing)
		}

		for row := 0; row < tbl.NumRows(); row++ {
			if tbl.Cell(row, column).IsAbsent() {
				tbl.SetCell(row, column, fill)
			}
		}
		runCtx.Log("Missing Value Fill", detail)
		total += missing
	}

	if total > 0 {
		runCtx.Log("Missing Value Fill Complete",
			fmt.Sprintf("Total filled: %d missing values", total))
	}
}
