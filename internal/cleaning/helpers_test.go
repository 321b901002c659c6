package cleaning

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wilcli/internal/dataset"
	"wilcli/pkg/contracts/domain"
)

// textTable builds a table of text cells; empty strings become absent,
// matching how the reader hands rows to the pipeline.
func textTable(t *testing.T, headers []string, rows [][]string) *dataset.Table {
	t.Helper()
	tbl := dataset.New(headers)
	for _, row := range rows {
		cells := make([]dataset.Cell, len(headers))
		for i := range headers {
			if i >= len(row) || row[i] == "" {
				cells[i] = dataset.Absent()
				continue
			}
			cells[i] = dataset.Text(row[i])
		}
		require.NoError(t, tbl.AppendRow(cells))
	}
	return tbl
}

// cellTable builds a table from typed cells for stages that run after
// integer coercion.
func cellTable(t *testing.T, headers []string, rows [][]dataset.Cell) *dataset.Table {
	t.Helper()
	tbl := dataset.New(headers)
	for _, row := range rows {
		require.NoError(t, tbl.AppendRow(row))
	}
	return tbl
}

// actionNames lists the log's action names in order.
func actionNames(actions []domain.LogEntry) []string {
	out := make([]string, len(actions))
	for i, entry := range actions {
		out[i] = entry.Action
	}
	return out
}

// actionDetails collects the details logged under one action name.
func actionDetails(runCtx *Context, action string) []string {
	var out []string
	for _, entry := range runCtx.actions {
		if entry.Action == action {
			out = append(out, entry.Detail)
		}
	}
	return out
}
