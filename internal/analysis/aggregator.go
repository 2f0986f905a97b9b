package analysis

import (
	"log"
	"sort"

	"evaldash/adapters/coercer"
	"evaldash/domain/dataset"
	"evaldash/domain/evaluation"

	"github.com/montanaflynn/stats"
)

// Aggregator validates evaluation tables and summarises them per
// (prompt type, model) group.
type Aggregator struct {
	coercer *coercer.TypeCoercer
}

// NewAggregator creates an aggregator using the given coercer
func NewAggregator(c *coercer.TypeCoercer) *Aggregator {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &Aggregator{coercer: c}
}

// NormalizedRow is one source row after coercion.
type NormalizedRow struct {
	Key     evaluation.GroupKey
	Metrics []dataset.Value
}

// Validate returns the required columns the table lacks, in contract order.
func (a *Aggregator) Validate(table *dataset.Table, contract evaluation.Contract) []string {
	var missing []string
	for _, col := range contract.Required() {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Normalize coerces the group-by columns to strings and the metric columns
// to numbers. Cells that are not numeric become missing. The table must
// already satisfy the contract.
func (a *Aggregator) Normalize(table *dataset.Table, contract evaluation.Contract) []NormalizedRow {
	prompts, _ := table.Column(contract.GroupBy[0])
	models, _ := table.Column(contract.GroupBy[1])

	metricCols := make([][]string, len(contract.Metrics))
	for i, m := range contract.Metrics {
		metricCols[i], _ = table.Column(m.Column)
	}

	rows := make([]NormalizedRow, table.NumRows())
	for r := range rows {
		rows[r].Key = evaluation.GroupKey{
			PromptType: a.coercer.ToCategorical(prompts[r]),
			Model:      a.coercer.ToCategorical(models[r]),
		}
		rows[r].Metrics = make([]dataset.Value, len(metricCols))
		for i, col := range metricCols {
			rows[r].Metrics[i] = a.coercer.ToNumeric(col[r])
		}
	}
	return rows
}

// Profile reports, per metric column, how many cells were numbers. The
// table must already satisfy the contract.
func (a *Aggregator) Profile(table *dataset.Table, contract evaluation.Contract) []evaluation.MetricProfile {
	profiles := make([]evaluation.MetricProfile, len(contract.Metrics))
	for i, m := range contract.Metrics {
		values, _ := table.Column(m.Column)
		analysis := a.coercer.AnalyzeTypeDistribution(values)
		profiles[i] = evaluation.MetricProfile{
			Column:       m.Column,
			Total:        analysis.TotalCount,
			Empty:        analysis.EmptyCount,
			Numeric:      analysis.NumericCount,
			Rejected:     analysis.RejectedCount,
			NumericRatio: analysis.NumericRatio,
			Mostly:       analysis.IsNumeric,
		}
		if analysis.ValidCount > 0 && !analysis.IsNumeric {
			log.Printf("[Aggregator] %s: column %q is only %.0f%% numeric",
				table.Name(), m.Column, analysis.NumericRatio*100)
		}
	}
	return profiles
}

// ValidateAndAggregate checks the table against the contract and returns
// the mean of every metric per (prompt type, model) group. A table missing
// required columns yields a *evaluation.Rejection and no summary.
//
// Rows with a missing prompt type or model still form a group of their
// own. Missing metric values are left out of that metric's mean; a group
// whose values are all missing gets a missing mean. Groups are ordered by
// prompt type then model with missing keys last.
func (a *Aggregator) ValidateAndAggregate(table *dataset.Table, contract evaluation.Contract) (*evaluation.AggregateTable, error) {
	if missing := a.Validate(table, contract); len(missing) > 0 {
		log.Printf("[Aggregator] %s rejected, missing columns: %v", table.Name(), missing)
		return nil, &evaluation.Rejection{Source: table.Name(), Missing: missing}
	}

	rows := a.Normalize(table, contract)
	profiles := a.Profile(table, contract)

	type accumulator struct {
		rows   int
		values [][]float64
	}
	groups := make(map[evaluation.GroupKey]*accumulator)
	var keys []evaluation.GroupKey

	for _, row := range rows {
		acc, ok := groups[row.Key]
		if !ok {
			acc = &accumulator{values: make([][]float64, len(contract.Metrics))}
			groups[row.Key] = acc
			keys = append(keys, row.Key)
		}
		acc.rows++
		for i, v := range row.Metrics {
			if f, ok := v.Float(); ok {
				acc.values[i] = append(acc.values[i], f)
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })

	result := &evaluation.AggregateTable{
		Source:   table.Name(),
		Contract: contract,
		Rows:     make([]evaluation.AggregateRow, 0, len(keys)),
		Profiles: profiles,
	}
	for _, key := range keys {
		acc := groups[key]
		means := make([]dataset.Value, len(contract.Metrics))
		for i, values := range acc.values {
			means[i] = mean(values)
		}
		result.Rows = append(result.Rows, evaluation.AggregateRow{Key: key, Rows: acc.rows, Means: means})
	}

	log.Printf("[Aggregator] %s: %d rows in %d groups", table.Name(), len(rows), len(result.Rows))

	return result, nil
}

func mean(values []float64) dataset.Value {
	m, err := stats.Mean(values)
	if err != nil {
		return dataset.NewMissingValue()
	}
	return dataset.NewNumericValue(m)
}
