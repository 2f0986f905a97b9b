package dataset

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"evaldash/adapters/excel"
	"evaldash/domain/dataset"
	"evaldash/internal/errors"
)

// SheetReader parses one workbook into header and rows.
type SheetReader interface {
	ReadData() (*excel.ExcelData, error)
}

// LoadWarning records a file that was discovered but could not be parsed.
type LoadWarning struct {
	File string
	Err  error
}

// Message is the user-facing warning text.
func (w LoadWarning) Message() string {
	return "Could not read " + w.File + ": " + w.Err.Error()
}

// LoadResult is the outcome of scanning one directory.
type LoadResult struct {
	Dir        string
	Discovered []string
	Catalog    *dataset.Catalog
	Warnings   []LoadWarning
	Duration   time.Duration
}

// Loader discovers spreadsheet files in a directory and parses them.
type Loader struct {
	openReader func(path string) SheetReader
}

// NewLoader returns a loader backed by the excel adapter.
func NewLoader() *Loader {
	return &Loader{
		openReader: func(path string) SheetReader { return excel.NewDataReader(path) },
	}
}

// NewLoaderWithReader lets callers substitute the workbook parser.
func NewLoaderWithReader(open func(path string) SheetReader) *Loader {
	return &Loader{openReader: open}
}

// DiscoverAndLoad scans dir with the default loader.
func DiscoverAndLoad(dir string) (*LoadResult, error) {
	return NewLoader().DiscoverAndLoad(dir)
}

// DiscoverAndLoad lists the .xls and .xlsx files directly inside dir and
// parses each one. A file that fails to parse is reported as a warning and
// left out of the catalog; it never stops the others from loading. Finding
// no candidate files at all is a NO_FILES error.
func (l *Loader) DiscoverAndLoad(dir string) (*LoadResult, error) {
	start := time.Now()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	result := &LoadResult{
		Dir:     dir,
		Catalog: dataset.NewCatalog(),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := excel.DetectFileType(entry.Name()); !ok {
			continue
		}
		result.Discovered = append(result.Discovered, entry.Name())
	}

	if len(result.Discovered) == 0 {
		log.Printf("[DatasetLoader] No spreadsheet files in %s", dir)
		return result, errors.NoFiles(dir)
	}

	for _, name := range result.Discovered {
		table, err := l.load(dir, name)
		if err != nil {
			warning := LoadWarning{File: name, Err: err}
			log.Printf("[DatasetLoader] WARNING %s", warning.Message())
			result.Warnings = append(result.Warnings, warning)
			continue
		}
		result.Catalog.Add(table)
	}

	result.Duration = time.Since(start)
	log.Printf("[DatasetLoader] Loaded %d of %d files from %s in %.2fms",
		result.Catalog.Len(), len(result.Discovered), dir, float64(result.Duration.Nanoseconds())/1e6)

	return result, nil
}

func (l *Loader) load(dir, name string) (*dataset.Table, error) {
	data, err := l.openReader(filepath.Join(dir, name)).ReadData()
	if err != nil {
		return nil, errors.ParseFailed(name, err)
	}
	table, err := dataset.NewTable(name, data.Headers, data.Rows)
	if err != nil {
		return nil, errors.ParseFailed(name, err)
	}
	return table, nil
}
