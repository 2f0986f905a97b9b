package excel

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DataReader reads the first sheet of an .xlsx or .xls workbook
type DataReader struct {
	filePath string
	fileType FileType
}

// DetectFileType maps a file name to a spreadsheet format by extension.
func DetectFileType(path string) (FileType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FileTypeXLSX, true
	case ".xls":
		return FileTypeXLS, true
	}
	return "", false
}

// NewDataReader creates a reader for filePath. The format is chosen from
// the extension; anything that is not .xls is treated as .xlsx.
func NewDataReader(filePath string) *DataReader {
	fileType, ok := DetectFileType(filePath)
	if !ok {
		fileType = FileTypeXLSX
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// FileType returns the format the reader will parse.
func (r *DataReader) FileType() FileType {
	return r.fileType
}

// ReadData parses the first sheet, using its first row as the header.
func (r *DataReader) ReadData() (*ExcelData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	switch r.fileType {
	case FileTypeXLSX:
		return r.readExcelData()
	case FileTypeXLS:
		return r.readLegacyData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the first worksheet of an OOXML workbook
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if err := spellBooleans(f, sheet, rows); err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(sheet, rows), nil
}

// spellBooleans rewrites boolean cells, which raw reads return as "1" and
// "0", to "True" and "False".
func spellBooleans(f *excelize.File, sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, v := range row {
			if v != "1" && v != "0" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			kind, err := f.GetCellType(sheet, cell)
			if err != nil {
				return err
			}
			if kind == excelize.CellTypeBool {
				row[c] = boolText[v]
			}
		}
	}
	return nil
}

var boolText = map[string]string{"1": "True", "0": "False"}

// processRows turns raw sheet rows into ExcelData. Header cells that are
// empty become "Unnamed: i", repeated names get ".1", ".2" suffixes, and
// data rows with no content at all are dropped.
func (r *DataReader) processRows(sheet string, rows [][]string) *ExcelData {
	data := &ExcelData{Sheet: sheet}
	if len(rows) == 0 {
		return data
	}

	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) > width {
			width = len(row)
		}
	}

	data.Headers = normalizeHeaders(rows[0], width)

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		data.Rows = append(data.Rows, row)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(string(r.fileType)), len(data.Headers), len(data.Rows))

	return data
}

func normalizeHeaders(raw []string, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(raw) {
			name = raw[i]
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		candidate := name
		for {
			if _, taken := seen[candidate]; !taken {
				break
			}
			seen[name]++
			candidate = fmt.Sprintf("%s.%d", name, seen[name])
		}
		seen[candidate] = 0
		headers[i] = candidate
	}

	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
