package services

import (
	"log"

	"evaldash/domain/evaluation"
	"evaldash/internal/analysis"
	"evaldash/internal/charts"
	internaldataset "evaldash/internal/dataset"
	"evaldash/internal/session"
)

// Dashboard is everything the page shows for one request. Fields after the
// first failing step are left empty.
type Dashboard struct {
	Dir      string
	Files    []string
	Selected string
	Warnings []string
	Preview  *session.Preview
	Summary  *evaluation.AggregateTable
	Charts   []charts.Chart
	Legend   []charts.LegendEntry
}

// DataService runs the load, select, aggregate and chart steps against the
// data directory. Each call opens its own session.
type DataService struct {
	dir         string
	previewRows int
	loader      *internaldataset.Loader
	aggregator  *analysis.Aggregator
	contract    evaluation.Contract
	specs       []charts.Spec
}

func NewDataService(dir string, previewRows int) *DataService {
	return &DataService{
		dir:         dir,
		previewRows: previewRows,
		loader:      internaldataset.NewLoader(),
		aggregator:  analysis.NewAggregator(nil),
		contract:    evaluation.DefaultContract(),
		specs:       charts.DefaultSpecs(),
	}
}

// Dir is the directory datasets are loaded from.
func (s *DataService) Dir() string { return s.dir }

// Datasets lists the readable files and the warnings for the rest.
func (s *DataService) Datasets() ([]string, []string, error) {
	sess, err := session.Open(s.dir, s.loader)
	if err != nil {
		return nil, nil, err
	}
	defer sess.Close()
	return sess.Names(), warningMessages(sess), nil
}

// Summary aggregates one dataset. An empty file selects the first dataset.
func (s *DataService) Summary(file string) (*evaluation.AggregateTable, error) {
	sess, err := session.Open(s.dir, s.loader)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if _, err := sess.Select(file); err != nil {
		return nil, err
	}
	return sess.Analyze(s.aggregator, s.contract)
}

// Dashboard builds the page for file. On error the returned Dashboard holds
// whatever was produced before the failing step.
func (s *DataService) Dashboard(file string) (*Dashboard, error) {
	view := &Dashboard{Dir: s.dir}

	sess, err := session.Open(s.dir, s.loader)
	if err != nil {
		return view, err
	}
	defer sess.Close()

	view.Files = sess.Names()
	view.Warnings = warningMessages(sess)

	table, err := sess.Select(file)
	if err != nil {
		return view, err
	}
	view.Selected = table.Name()

	if view.Preview, err = sess.Preview(s.previewRows); err != nil {
		return view, err
	}

	if view.Summary, err = sess.Analyze(s.aggregator, s.contract); err != nil {
		view.Summary = nil
		return view, err
	}

	if view.Charts, view.Legend, err = charts.RenderAll(view.Summary, s.specs); err != nil {
		log.Printf("[DataService] charts for %s failed: %v", view.Selected, err)
		return view, err
	}
	return view, nil
}

func warningMessages(sess *session.Session) []string {
	var out []string
	for _, w := range sess.Warnings() {
		out = append(out, w.Message())
	}
	return out
}
