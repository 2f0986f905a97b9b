package charts

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"sort"

	"evaldash/domain/dataset"
	"evaldash/domain/evaluation"
	"evaldash/internal/errors"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Set2 is the qualitative palette bars are coloured from, one colour per model.
var Set2 = []string{"66c2a5", "fc8d62", "8da0cb", "e78ac3", "a6d854", "ffd92f", "e5c494", "b3b3b3"}

const (
	barWidth   = 28
	barSpacing = 10
	minWidth   = 640
	height     = 400
)

// Spec names one chart: the section heading and the metric it plots.
type Spec struct {
	Heading string
	Column  string
}

// DefaultSpecs are the three dashboard charts in display order.
func DefaultSpecs() []Spec {
	return []Spec{
		{Heading: "Answer Quality vs Energy Consumption", Column: evaluation.ColumnElectricity},
		{Heading: "Answer Quality vs CO2 Emission (Cost Proxy)", Column: evaluation.ColumnCO2},
		{Heading: "Inference Latency Comparison", Column: evaluation.ColumnInference},
	}
}

// LegendEntry maps a model to its bar colour.
type LegendEntry struct {
	Model string `json:"model"`
	Color string `json:"color"`
}

// Chart is one rendered metric chart.
type Chart struct {
	Spec  Spec
	Label string
	// SVG is empty when every mean of the metric was missing.
	SVG  []byte
	Bars int
}

// Legend assigns palette colours to models in summary order.
func Legend(summary *evaluation.AggregateTable) []LegendEntry {
	var legend []LegendEntry
	seen := make(map[dataset.Value]bool)
	var models []dataset.Value
	for _, row := range summary.Rows {
		if !seen[row.Key.Model] {
			seen[row.Key.Model] = true
			models = append(models, row.Key.Model)
		}
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Compare(models[j]) < 0 })
	for i, m := range models {
		legend = append(legend, LegendEntry{Model: keyLabel(m), Color: "#" + Set2[i%len(Set2)]})
	}
	return legend
}

// RenderAll draws every chart in specs from summary.
func RenderAll(summary *evaluation.AggregateTable, specs []Spec) ([]Chart, []LegendEntry, error) {
	legend := Legend(summary)
	colors := make(map[string]string, len(legend))
	for _, e := range legend {
		colors[e.Model] = e.Color[1:]
	}

	out := make([]Chart, 0, len(specs))
	for _, spec := range specs {
		c, err := render(summary, spec, colors)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, c)
	}
	return out, legend, nil
}

func render(summary *evaluation.AggregateTable, spec Spec, colors map[string]string) (Chart, error) {
	idx := summary.Contract.MetricIndex(spec.Column)
	if idx < 0 {
		return Chart{}, errors.InvalidInput(fmt.Sprintf("%s is not a metric column", spec.Column))
	}
	result := Chart{Spec: spec, Label: summary.Contract.Metrics[idx].Label}

	var bars []chart.Value
	lo, hi := 0.0, 0.0
	for _, row := range summary.Rows {
		v, ok := row.Means[idx].Float()
		if !ok {
			continue
		}
		model := keyLabel(row.Key.Model)
		color := drawing.ColorFromHex(colors[model])
		bars = append(bars, chart.Value{
			Label: svgText(keyLabel(row.Key.PromptType) + " / " + model),
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		})
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	result.Bars = len(bars)
	if len(bars) == 0 {
		return result, nil
	}

	// go-chart cannot draw a flat range
	if hi-lo == 0 {
		hi = lo + 1
	}

	width := len(bars)*(barWidth+barSpacing) + 160
	if width < minWidth {
		width = minWidth
	}

	bc := chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 90}},
		XAxis:      chart.Style{TextRotationDegrees: 45.0, FontSize: 8},
		YAxis: chart.YAxis{
			Name:  svgText(result.Label),
			Range: &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.*f", evaluation.DisplayPrecision, f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.SVG, &buf); err != nil {
		return Chart{}, errors.Wrapf(err, "render %s chart", spec.Column)
	}
	result.SVG = buf.Bytes()
	return result, nil
}

// svgText escapes text for go-chart, which writes it into <text> elements
// verbatim.
func svgText(s string) string {
	return html.EscapeString(s)
}

func keyLabel(v dataset.Value) string {
	if v.IsMissing() {
		return evaluation.MissingLabel
	}
	return v.String()
}
