package exporter

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/xuri/excelize/v2"

	"wilcli/pkg/contracts/domain"
)

// TableSetExporter persists an analysis table set in the formats the
// reporting side consumes: one CSV per table, one JSON document for the
// whole set, and one Excel workbook with a sheet per table.
type TableSetExporter struct {
	logger     *slog.Logger
	csvWriter  *CSVWriter
	jsonWriter *JSONWriter
	bom        bool
}

// NewTableSetExporter creates a table set exporter. bom controls whether
// exported CSVs carry a UTF-8 BOM for Excel.
func NewTableSetExporter(logger *slog.Logger, bom bool) *TableSetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableSetExporter{
		logger:     logger,
		csvWriter:  NewCSVWriter(logger),
		jsonWriter: NewJSONWriter(logger),
		bom:        bom,
	}
}

// orderedNames returns the set's table names with the canonical tables
// first and any extras sorted after them.
func orderedNames(set *domain.TableSet) []string {
	canonical := []string{
		domain.TableEnrollmentComparison,
		domain.TableTermBreakdown,
		domain.TableDistinctStudents,
	}
	var names []string
	for _, name := range canonical {
		if _, ok := set.Tables[name]; ok {
			names = append(names, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(set.Tables)) {
		if !slices.Contains(canonical, name) {
			names = append(names, name)
		}
	}
	return names
}

// ExportCSV writes one CSV per table into dir, named after the table.
// It returns the paths written.
func (e *TableSetExporter) ExportCSV(set *domain.TableSet, dir string) ([]string, error) {
	if set.Empty() {
		return nil, nil
	}
	var written []string
	for _, name := range orderedNames(set) {
		table := set.Tables[name]
		records := make([][]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			record := make([]string, len(table.Headers))
			for i, header := range table.Headers {
				record[i] = row[header].String()
			}
			records = append(records, record)
		}

		path := filepath.Join(dir, name+".csv")
		err := e.csvWriter.WriteCSV(path, WriteOptions{
			Headers:   table.Headers,
			Records:   records,
			BOMPrefix: e.bom,
		})
		if err != nil {
			return written, fmt.Errorf("failed to export table %s: %w", name, err)
		}
		written = append(written, path)
	}

	e.logger.Info("Exported table set as CSV",
		slog.String("dir", dir),
		slog.Int("tables", len(written)))
	return written, nil
}

// ExportJSON writes the whole set as one JSON document keyed by table
// name with a _metadata entry.
func (e *TableSetExporter) ExportJSON(set *domain.TableSet, filePath string) error {
	if err := e.jsonWriter.WriteJSON(filePath, set); err != nil {
		return err
	}
	e.logger.Info("Exported table set as JSON", slog.String("path", filePath))
	return nil
}

// ExportWorkbook writes the set as an Excel workbook, one sheet per
// table. The term breakdown keeps its two-level header with year cells
// merged across their terms.
func (e *TableSetExporter) ExportWorkbook(set *domain.TableSet, filePath string) error {
	if set.Empty() {
		return nil
	}

	f := excelize.NewFile()
	defer f.Close()

	names := orderedNames(set)
	for i, name := range names {
		sheet := sanitizeSheetName(name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, set.Tables[name]); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
		}
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Exported table set as workbook",
		slog.String("path", filePath),
		slog.Int("sheets", len(names)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, table *domain.ComparisonTable) error {
	row := 1
	if table.Title != "" {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, cell, table.Title); err != nil {
			return err
		}
		row += 2
	}

	if table.HierarchicalHeaders != nil {
		if err := writeTwoLevelHeader(f, sheet, table.HierarchicalHeaders, row); err != nil {
			return err
		}
		row += 2
	} else {
		for i, header := range table.Headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, header); err != nil {
				return err
			}
		}
		row++
	}

	for _, r := range table.Rows {
		for i, header := range table.Headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, cellContent(r[header])); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// writeTwoLevelHeader writes the year row and the term row, merging each
// year across its terms and the label column across both rows.
func writeTwoLevelHeader(f *excelize.File, sheet string, hh *domain.HierarchicalHeaders, row int) error {
	for i, v := range hh.Level1 {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	for i, v := range hh.Level2 {
		cell, _ := excelize.CoordinatesToCellName(i+1, row+1)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}

	start := 0
	for i := 1; i <= len(hh.Level1); i++ {
		if i < len(hh.Level1) && hh.Level1[i] == hh.Level1[start] {
			continue
		}
		if i-start > 1 {
			from, _ := excelize.CoordinatesToCellName(start+1, row)
			to, _ := excelize.CoordinatesToCellName(i, row)
			if err := f.MergeCell(sheet, from, to); err != nil {
				return err
			}
		}
		start = i
	}

	if len(hh.Level2) > 0 && hh.Level2[0] == "" {
		from, _ := excelize.CoordinatesToCellName(1, row)
		to, _ := excelize.CoordinatesToCellName(1, row+1)
		if err := f.MergeCell(sheet, from, to); err != nil {
			return err
		}
	}
	return nil
}
