package evaluation

// Column names every evaluation workbook must carry, matched exactly.
const (
	ColumnPromptType    = "Prompt_Type"
	ColumnModel         = "Model"
	ColumnAnswerQuality = "Answer quality (1-5, 0 if it's wrong)"
	ColumnElectricity   = "Electricity consumption"
	ColumnCO2           = "CO2 emission"
	ColumnInference     = "Inference timing (seconds)"
)

// Metric is a numeric column that gets averaged per group.
type Metric struct {
	Column string
	// Label is the axis title used when the metric is charted.
	Label string
}

// Contract describes the columns a dataset needs before it can be analysed.
type Contract struct {
	GroupBy [2]string
	Metrics []Metric
}

// DefaultContract is the six-column evaluation layout.
func DefaultContract() Contract {
	return Contract{
		GroupBy: [2]string{ColumnPromptType, ColumnModel},
		Metrics: []Metric{
			{Column: ColumnAnswerQuality, Label: "Answer Quality (1-5)"},
			{Column: ColumnElectricity, Label: "Electricity Consumption (kWh)"},
			{Column: ColumnCO2, Label: "CO2 Emission (kg)"},
			{Column: ColumnInference, Label: "Inference Time (seconds)"},
		},
	}
}

// Required returns the group-by columns followed by the metric columns.
func (c Contract) Required() []string {
	out := []string{c.GroupBy[0], c.GroupBy[1]}
	return append(out, c.MetricColumns()...)
}

// MetricColumns returns the metric column names in contract order.
func (c Contract) MetricColumns() []string {
	out := make([]string, len(c.Metrics))
	for i, m := range c.Metrics {
		out[i] = m.Column
	}
	return out
}

// MetricIndex returns the position of column among the metrics, or -1.
func (c Contract) MetricIndex(column string) int {
	for i, m := range c.Metrics {
		if m.Column == column {
			return i
		}
	}
	return -1
}
