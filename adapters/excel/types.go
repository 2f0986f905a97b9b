package excel

// FileType identifies the spreadsheet container format.
type FileType string

const (
	// FileTypeXLSX is the zipped OOXML workbook format.
	FileTypeXLSX FileType = "xlsx"
	// FileTypeXLS is the legacy BIFF workbook format.
	FileTypeXLS FileType = "xls"
)

// ExcelData represents the first sheet of a workbook
type ExcelData struct {
	Sheet   string     // Name of the sheet that was read
	Headers []string   // Column headers, unique and non-empty
	Rows    [][]string // Data rows, never wider than Headers
}
