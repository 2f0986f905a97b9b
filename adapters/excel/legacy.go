package excel

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/extrame/xls"
)

const (
	// legacyCharset is used to decode BIFF8 byte strings.
	legacyCharset = "utf-8"
	// legacyMaxColumns is the BIFF8 column limit (IV).
	legacyMaxColumns = 256
	// legacyFormulaText is what the parser yields for formula cells; their
	// cached result is not decoded.
	legacyFormulaText = "FormulaCol"
)

// readLegacyData reads the first worksheet of a BIFF (.xls) workbook.
// Panics from the BIFF parser on malformed input are returned as errors.
func (r *DataReader) readLegacyData() (data *ExcelData, err error) {
	startTime := time.Now()

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLS file: %w", err)
	}
	defer file.Close()

	defer func() {
		if p := recover(); p != nil {
			data = nil
			err = fmt.Errorf("malformed XLS file: %v", p)
		}
	}()

	wb, err := xls.OpenReader(file, legacyCharset)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLS file: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("failed to read first sheet")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := legacyRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, legacyCells(row))
	}
	rows = trimTrailingBlankRows(rows)
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheet.Name, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(sheet.Name, rows), nil
}

// legacyRow returns nil for rows the sheet has no record of.
func legacyRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// legacyCells scans every column, since rows without a ROW record report
// no extent.
func legacyCells(row *xls.Row) []string {
	cells := make([]string, legacyMaxColumns)
	for j := range cells {
		if v := row.Col(j); v != legacyFormulaText {
			cells[j] = v
		}
	}
	return trimTrailingEmpty(cells)
}

func trimTrailingEmpty(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}

func trimTrailingBlankRows(rows [][]string) [][]string {
	n := len(rows)
	for n > 0 && isBlankRow(rows[n-1]) {
		n--
	}
	return rows[:n]
}
