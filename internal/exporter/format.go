package exporter

import (
	"strings"

	"wilcli/pkg/contracts/domain"
)

// cellContent returns the typed payload for a spreadsheet cell: counts
// stay numeric so Excel can aggregate them, everything else is text.
func cellContent(v domain.CellValue) interface{} {
	if n, ok := v.AsCount(); ok {
		return n
	}
	return v.String()
}

var sheetNameReplacer = strings.NewReplacer(
	":", "-", `\`, "-", "/", "-", "?", "-", "*", "-", "[", "(", "]", ")",
)

// sanitizeSheetName strips characters Excel rejects in sheet names and
// enforces the 31-character limit.
func sanitizeSheetName(name string) string {
	s := sheetNameReplacer.Replace(name)
	if len(s) > 31 {
		s = s[:31]
	}
	return s
}
