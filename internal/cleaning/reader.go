package cleaning

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"wilcli/internal/dataset"
	apperrors "wilcli/internal/errors"
)

// Source labels returned by Reader.Read, used in the cleaning log.
const (
	EncodingUTF8   = "utf-8"
	EncodingGBK    = "gbk"
	EncodingLatin1 = "latin-1"
	FormatXLSX     = "xlsx"
	FormatXLS      = "xls"
)

// Reader loads a tabular file into a raw Table. The first row is the
// header; empty cells read as absent, everything else as text. Delimited
// files go through a fixed encoding fallback chain (UTF-8, then GBK, then
// Latin-1) stopping at the first encoding that decodes cleanly.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a file reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Read loads path into a table and reports which encoding or spreadsheet
// engine produced it. Unknown extensions fail with UnsupportedFormat
// before any I/O.
func (r *Reader) Read(path string) (*dataset.Table, string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return r.readCSV(path)
	case ".xlsx":
		return r.readXLSX(path)
	case ".xls":
		return r.readXLS(path)
	default:
		return nil, "", apperrors.NewUnsupportedFormatError(ext).
			WithContext("file", path)
	}
}

func (r *Reader) readCSV(path string) (*dataset.Table, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", apperrors.NewReadError(
			fmt.Sprintf("failed to read file %s", path), err)
	}

	text, encoding := decodeWithFallback(raw)
	if encoding != EncodingUTF8 {
		r.logger.Info("CSV decoded with fallback encoding",
			slog.String("file", path),
			slog.String("encoding", encoding))
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, "", apperrors.NewReadError(
			fmt.Sprintf("failed to parse CSV file %s", path), err)
	}

	tbl := r.tableFromRows(records, path)
	return tbl, encoding, nil
}

// decodeWithFallback tries UTF-8, then GBK, then Latin-1, in that order.
// GBK counts as a failure when decoding produced replacement runes;
// Latin-1 maps every byte and cannot fail.
func decodeWithFallback(raw []byte) (string, string) {
	trimmed := bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(trimmed) {
		return string(trimmed), EncodingUTF8
	}

	if decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw); err == nil &&
		!bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded), EncodingGBK
	}

	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	return string(decoded), EncodingLatin1
}

func (r *Reader) readXLSX(path string) (*dataset.Table, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", apperrors.NewReadError(
			fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", apperrors.NewReadError(
			fmt.Sprintf("workbook %s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, "", apperrors.NewReadError(
			fmt.Sprintf("failed to read sheet %q in %s", sheets[0], path), err)
	}

	return r.tableFromRows(rows, path), FormatXLSX, nil
}

func (r *Reader) readXLS(path string) (*dataset.Table, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", apperrors.NewReadError(
			fmt.Sprintf("failed to read file %s", path), err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, "", apperrors.NewReadError(
			fmt.Sprintf("failed to open workbook %s", path), err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, "", apperrors.NewReadError(
			fmt.Sprintf("workbook %s has no sheets", path), nil)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}

	return r.tableFromRows(rows, path), FormatXLS, nil
}

// tableFromRows builds a raw table from header + data rows. Rows shorter
// than the header are padded with absent cells; longer rows lose the
// overflow. Duplicate header names get a numeric suffix so no column is
// silently dropped.
func (r *Reader) tableFromRows(rows [][]string, path string) *dataset.Table {
	if len(rows) == 0 {
		return dataset.New(nil)
	}

	header := uniqueHeader(rows[0])
	tbl := dataset.New(header)

	short, long := 0, 0
	for _, record := range rows[1:] {
		if len(record) < len(header) {
			short++
		} else if len(record) > len(header) {
			long++
		}
		cells := make([]dataset.Cell, len(header))
		for i := range header {
			if i >= len(record) || record[i] == "" {
				cells[i] = dataset.Absent()
				continue
			}
			cells[i] = dataset.Text(record[i])
		}
		_ = tbl.AppendRow(cells)
	}

	if short > 0 || long > 0 {
		r.logger.Warn("Ragged rows normalized to header width",
			slog.String("file", path),
			slog.Int("padded", short),
			slog.Int("truncated", long))
	}
	return tbl
}

// uniqueHeader suffixes repeated column names (X, X.1, X.2) the way the
// upstream extracts disambiguate them.
func uniqueHeader(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
