package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"evaldash/domain/evaluation"

	"github.com/xuri/excelize/v2"
)

// EvaluationHeader is the header row of a well-formed evaluation workbook.
func EvaluationHeader() []interface{} {
	header := []interface{}{}
	for _, col := range evaluation.DefaultContract().Required() {
		header = append(header, col)
	}
	return header
}

// SampleRows is a small evaluation sheet covering two prompt types and two
// models, including one non-numeric electricity reading.
func SampleRows() [][]interface{} {
	return [][]interface{}{
		EvaluationHeader(),
		{"factual", "A", 4, 1.0, 0.2, 1.5},
		{"factual", "A", 2, 3.0, 0.4, 2.5},
		{"factual", "B", 5, 2.0, 0.3, 3.0},
		{"creative", "A", 3, 1.5, 0.1, 1.0},
		{"creative", "B", 1, "N/A", 0.5, 4.0},
	}
}

// WriteWorkbook writes rows to the first sheet of a new .xlsx file in dir
// and returns its path. Nil cells are left empty.
func WriteWorkbook(tb testing.TB, dir, name string, rows [][]interface{}) string {
	tb.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			tb.Fatalf("cell name for row %d: %v", i+1, err)
		}
		values := make([]interface{}, len(row))
		copy(values, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			tb.Fatalf("write row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		tb.Fatalf("save %s: %v", path, err)
	}
	return path
}

// WriteFile writes arbitrary bytes, typically a corrupt workbook.
func WriteFile(tb testing.TB, dir, name string, content []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
