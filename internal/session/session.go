package session

import (
	"log"

	"evaldash/domain/core"
	"evaldash/domain/dataset"
	"evaldash/domain/evaluation"
	"evaldash/internal/analysis"
	internaldataset "evaldash/internal/dataset"
	"evaldash/internal/errors"
)

// DefaultPreviewRows is the number of rows shown when no count is given.
const DefaultPreviewRows = 5

// Session holds the datasets loaded for one dashboard request and the
// dataset the user picked. A session is owned by a single goroutine.
type Session struct {
	ID        core.SessionID
	Dir       string
	CreatedAt core.Timestamp

	result   *internaldataset.LoadResult
	selected *dataset.Table
}

// Preview is the first rows of the selected dataset.
type Preview struct {
	Columns []string
	Rows    [][]string
}

// Open scans dir and returns a session over whatever loaded. The loader's
// NO_FILES error is passed through unchanged.
func Open(dir string, loader *internaldataset.Loader) (*Session, error) {
	if loader == nil {
		loader = internaldataset.NewLoader()
	}

	s := &Session{
		ID:        core.NewSessionID(),
		Dir:       dir,
		CreatedAt: core.Now(),
	}

	result, err := loader.DiscoverAndLoad(dir)
	if err != nil {
		log.Printf("[Session] %s: open %s failed: %v", s.ID, dir, err)
		return nil, err
	}
	s.result = result

	log.Printf("[Session] %s: %d datasets, %d warnings", s.ID, result.Catalog.Len(), len(result.Warnings))
	return s, nil
}

// Names lists the loaded datasets in selector order.
func (s *Session) Names() []string {
	if s.result == nil {
		return nil
	}
	return s.result.Catalog.Names()
}

// Warnings returns the files that were found but could not be read.
func (s *Session) Warnings() []internaldataset.LoadWarning {
	if s.result == nil {
		return nil
	}
	return s.result.Warnings
}

// Select makes name the current dataset. An empty name picks the first
// dataset in the catalog.
func (s *Session) Select(name string) (*dataset.Table, error) {
	names := s.Names()
	if len(names) == 0 {
		return nil, errors.NoDatasets("none of the Excel files in " + s.Dir + " could be read")
	}
	if name == "" {
		name = names[0]
	}

	table, ok := s.result.Catalog.Get(name)
	if !ok {
		return nil, errors.NotFound("dataset " + name)
	}
	s.selected = table
	return table, nil
}

// Selected returns the current dataset, or nil before Select succeeds.
func (s *Session) Selected() *dataset.Table {
	return s.selected
}

// Preview returns the first n rows of the selected dataset. A negative n
// means DefaultPreviewRows.
func (s *Session) Preview(n int) (*Preview, error) {
	if s.selected == nil {
		return nil, errors.InvalidInput("no dataset selected")
	}
	if n < 0 {
		n = DefaultPreviewRows
	}
	return &Preview{
		Columns: s.selected.Columns(),
		Rows:    s.selected.Head(n),
	}, nil
}

// Analyze validates and aggregates the selected dataset.
func (s *Session) Analyze(agg *analysis.Aggregator, contract evaluation.Contract) (*evaluation.AggregateTable, error) {
	if s.selected == nil {
		return nil, errors.InvalidInput("no dataset selected")
	}
	if agg == nil {
		agg = analysis.NewAggregator(nil)
	}
	return agg.ValidateAndAggregate(s.selected, contract)
}

// Close drops the loaded datasets. The session cannot be used afterwards.
func (s *Session) Close() {
	log.Printf("[Session] %s: closed after %s", s.ID, s.CreatedAt.Since())
	s.result = nil
	s.selected = nil
}
