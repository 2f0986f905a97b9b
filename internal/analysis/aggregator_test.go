package analysis

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"evaldash/adapters/coercer"
	"evaldash/domain/dataset"
	"evaldash/domain/evaluation"
	internaldataset "evaldash/internal/dataset"
	"evaldash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header() []string {
	return evaluation.DefaultContract().Required()
}

func mustTable(t *testing.T, columns []string, rows [][]string) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable("runs.xlsx", columns, rows)
	require.NoError(t, err)
	return table
}

func meanOf(t *testing.T, summary *evaluation.AggregateTable, r int, column string) (float64, bool) {
	t.Helper()
	v, ok := summary.Mean(r, column)
	require.True(t, ok, "unknown metric %s", column)
	return v.Float()
}

func TestValidateAndAggregateTwoRowScenario(t *testing.T) {
	table := mustTable(t, header(), [][]string{
		{"factual", "A", "4", "1.0", "0.2", "1.0"},
		{"factual", "A", "2", "3.0", "0.4", "2.0"},
	})

	summary, err := NewAggregator(nil).ValidateAndAggregate(table, evaluation.DefaultContract())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)

	row := summary.Rows[0]
	assert.Equal(t, dataset.NewStringValue("factual"), row.Key.PromptType)
	assert.Equal(t, dataset.NewStringValue("A"), row.Key.Model)
	assert.Equal(t, 2, row.Rows)

	quality, ok := meanOf(t, summary, 0, evaluation.ColumnAnswerQuality)
	require.True(t, ok)
	assert.InDelta(t, 3.0, quality, 1e-12)

	electricity, ok := meanOf(t, summary, 0, evaluation.ColumnElectricity)
	require.True(t, ok)
	assert.InDelta(t, 2.0, electricity, 1e-12)

	assert.Equal(t, header(), summary.Columns())
}

func TestValidateAndAggregateNonNumericOnlyRow(t *testing.T) {
	table := mustTable(t, header(), [][]string{
		{"factual", "A", "4", "N/A", "0.2", "1.0"},
		{"factual", "B", "3", "2.5", "0.1", "1.0"},
	})

	summary, err := NewAggregator(nil).ValidateAndAggregate(table, evaluation.DefaultContract())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)

	electricity, ok := summary.Mean(0, evaluation.ColumnElectricity)
	require.True(t, ok)
	assert.True(t, electricity.IsMissing(), "all-missing group mean must be missing, not zero")
	assert.Equal(t, "", summary.Cell(0, 3))

	other, ok := meanOf(t, summary, 1, evaluation.ColumnElectricity)
	require.True(t, ok)
	assert.InDelta(t, 2.5, other, 1e-12)

	assert.Equal(t, []int{0, 1, 0, 0}, rejectedCounts(summary))
}

func rejectedCounts(summary *evaluation.AggregateTable) []int {
	counts := make([]int, len(summary.Profiles))
	for i, p := range summary.Profiles {
		counts[i] = p.Rejected
	}
	return counts
}

func TestValidateAndAggregateExcludesNonNumericFromMean(t *testing.T) {
	table := mustTable(t, header(), [][]string{
		{"reasoning", "A", "5", "1", "0.1", "2"},
		{"reasoning", "A", "oops", "2", "0.2", "4"},
		{"reasoning", "A", "3", "", "0.3", "n/a"},
	})

	summary, err := NewAggregator(nil).ValidateAndAggregate(table, evaluation.DefaultContract())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)

	quality, ok := meanOf(t, summary, 0, evaluation.ColumnAnswerQuality)
	require.True(t, ok)
	assert.InDelta(t, 4.0, quality, 1e-12)

	electricity, ok := meanOf(t, summary, 0, evaluation.ColumnElectricity)
	require.True(t, ok)
	assert.InDelta(t, 1.5, electricity, 1e-12)

	timing, ok := meanOf(t, summary, 0, evaluation.ColumnInference)
	require.True(t, ok)
	assert.InDelta(t, 3.0, timing, 1e-12)

	assert.Equal(t, []int{1, 0, 0, 1}, rejectedCounts(summary), "empty cells are missing but not rejected")
}

func TestValidateAndAggregateProfilesMetrics(t *testing.T) {
	table := mustTable(t, header(), [][]string{
		{"factual", "A", "5", "1", "0.1", "fast"},
		{"factual", "A", "4", "", "0.2", "slow"},
		{"factual", "B", "3", "2", "0.3", "1.5"},
		{"factual", "B", "2", "N/A", "0.4", "n/a"},
		{"factual", "B", "1", "3", "0.5", ""},
	})

	summary, err := NewAggregator(nil).ValidateAndAggregate(table, evaluation.DefaultContract())
	require.NoError(t, err)
	require.Len(t, summary.Profiles, 4)

	quality, ok := summary.Profile(evaluation.ColumnAnswerQuality)
	require.True(t, ok)
	assert.Equal(t, evaluation.MetricProfile{
		Column:       evaluation.ColumnAnswerQuality,
		Total:        5,
		Numeric:      5,
		NumericRatio: 1,
		Mostly:       true,
	}, quality)

	electricity, ok := summary.Profile(evaluation.ColumnElectricity)
	require.True(t, ok)
	assert.Equal(t, 1, electricity.Empty)
	assert.Equal(t, 3, electricity.Numeric)
	assert.Equal(t, 1, electricity.Rejected)
	assert.InDelta(t, 0.75, electricity.NumericRatio, 1e-12)
	assert.False(t, electricity.Mostly, "below the 0.8 threshold")

	timing, ok := summary.Profile(evaluation.ColumnInference)
	require.True(t, ok)
	assert.Equal(t, 3, timing.Rejected)
	assert.InDelta(t, 0.25, timing.NumericRatio, 1e-12)
	assert.False(t, timing.Mostly)

	_, ok = summary.Profile("Model")
	assert.False(t, ok)
}

func TestProfileHonoursThreshold(t *testing.T) {
	table := mustTable(t, header(), [][]string{
		{"factual", "A", "1", "1", "1", "1"},
		{"factual", "A", "oops", "1", "1", "1"},
	})
	lenient := NewAggregator(coercer.NewTypeCoercer(coercer.CoercionConfig{NumericThreshold: 0.5, TrimNumeric: true}))

	profiles := lenient.Profile(table, evaluation.DefaultContract())
	assert.True(t, profiles[0].Mostly)
	assert.InDelta(t, 0.5, profiles[0].NumericRatio, 1e-12)

	strict := NewAggregator(nil).Profile(table, evaluation.DefaultContract())
	assert.False(t, strict[0].Mostly)
}

func TestValidateAndAggregateRejectsMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		missing []string
	}{
		{
			name:    "no contract columns",
			columns: []string{"id", "notes"},
			missing: header(),
		},
		{
			name:    "two metrics absent",
			columns: []string{"Prompt_Type", "Model", "Answer quality (1-5, 0 if it's wrong)", "Electricity consumption"},
			missing: []string{"CO2 emission", "Inference timing (seconds)"},
		},
		{
			name:    "case differs",
			columns: []string{"prompt_type", "Model", "Answer quality (1-5, 0 if it's wrong)", "Electricity consumption", "CO2 emission", "Inference timing (seconds)"},
			missing: []string{"Prompt_Type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustTable(t, tt.columns, nil)

			summary, err := NewAggregator(nil).ValidateAndAggregate(table, evaluation.DefaultContract())
			assert.Nil(t, summary)

			var rejection *evaluation.Rejection
			require.True(t, errors.As(err, &rejection))
			assert.Equal(t, tt.missing, rejection.Missing)
			assert.Equal(t, "runs.xlsx", rejection.Source)
		})
	}
}

func TestValidateAndAggregateKeepsMissingKeyGroups(t *testing.T) {
	table := mustTable(t, header(), [][]string{
		{"", "A", "1", "1", "1", "1"},
		{"factual", "", "2", "2", "2", "2"},
		{"factual", "A", "3", "3", "3", "3"},
		{"", "", "4", "4", "4", "4"},
		{"", "A", "5", "5", "5", "5"},
	})

	summary, err := NewAggregator(nil).ValidateAndAggregate(table, evaluation.DefaultContract())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 4)
	assert.Equal(t, 5, summary.TotalRows())

	assert.Equal(t, "factual", summary.Cell(0, 0))
	assert.Equal(t, "A", summary.Cell(0, 1))
	assert.Equal(t, "factual", summary.Cell(1, 0))
	assert.Equal(t, evaluation.MissingLabel, summary.Cell(1, 1))
	assert.Equal(t, evaluation.MissingLabel, summary.Cell(2, 0))
	assert.Equal(t, "A", summary.Cell(2, 1))
	assert.Equal(t, 2, summary.Rows[2].Rows)
	assert.Equal(t, "3.000", summary.Cell(2, 2))
	assert.True(t, summary.Rows[3].Key.PromptType.IsMissing())
	assert.True(t, summary.Rows[3].Key.Model.IsMissing())
}

func TestValidateAndAggregateExactKeyEquality(t *testing.T) {
	table := mustTable(t, header(), [][]string{
		{"factual", "A", "1", "1", "1", "1"},
		{"factual ", "A", "2", "2", "2", "2"},
		{"Factual", "A", "3", "3", "3", "3"},
	})

	summary, err := NewAggregator(nil).ValidateAndAggregate(table, evaluation.DefaultContract())
	require.NoError(t, err)
	assert.Len(t, summary.Rows, 3)
}

func TestValidateAndAggregateIgnoresExtraColumns(t *testing.T) {
	columns := append([]string{"Run ID"}, header()...)
	table := mustTable(t, columns, [][]string{
		{"r1", "factual", "A", "4", "1", "1", "1"},
	})

	summary, err := NewAggregator(nil).ValidateAndAggregate(table, evaluation.DefaultContract())
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, "4.000", summary.Cell(0, 2))
}

func generatedTable(t *testing.T, config testkit.EvaluationGeneratorConfig) *dataset.Table {
	t.Helper()
	dir := t.TempDir()
	testkit.WriteWorkbook(t, dir, "generated.xlsx", testkit.NewEvaluationGenerator(config).Generate())

	result, err := internaldataset.DiscoverAndLoad(dir)
	require.NoError(t, err)
	table, ok := result.Catalog.Get("generated.xlsx")
	require.True(t, ok)
	return table
}

func TestValidateAndAggregatePartitionsRows(t *testing.T) {
	table := generatedTable(t, testkit.DefaultEvaluationConfig())
	agg := NewAggregator(nil)
	contract := evaluation.DefaultContract()

	summary, err := agg.ValidateAndAggregate(table, contract)
	require.NoError(t, err)
	assert.Equal(t, table.NumRows(), summary.TotalRows())

	seen := make(map[evaluation.GroupKey]int)
	for i, row := range summary.Rows {
		_, dup := seen[row.Key]
		assert.False(t, dup, "group %v emitted twice", row.Key)
		seen[row.Key] = i
		if i > 0 {
			assert.Equal(t, -1, summary.Rows[i-1].Key.Compare(row.Key), "rows out of order")
		}
	}

	normalized := agg.Normalize(table, contract)
	counts := make(map[evaluation.GroupKey]int)
	for _, row := range normalized {
		_, ok := seen[row.Key]
		require.True(t, ok, "row key %v has no group", row.Key)
		counts[row.Key]++
	}
	for key, i := range seen {
		assert.Equal(t, counts[key], summary.Rows[i].Rows)
	}
}

func TestValidateAndAggregateMeanLaws(t *testing.T) {
	config := testkit.DefaultEvaluationConfig()
	config.InvalidRate = 0
	config.MissingKeyRate = 0

	base := generatedTable(t, config)
	contract := evaluation.DefaultContract()
	agg := NewAggregator(nil)

	summary, err := agg.ValidateAndAggregate(base, contract)
	require.NoError(t, err)

	rows := base.Head(base.NumRows())

	shuffled := make([][]string, len(rows))
	copy(shuffled, rows)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	permuted, err := agg.ValidateAndAggregate(mustTable(t, base.Columns(), shuffled), contract)
	require.NoError(t, err)

	const k = 2.5
	scaledRows := make([][]string, len(rows))
	for r, row := range rows {
		scaledRows[r] = append([]string(nil), row...)
		for c := 2; c < len(row); c++ {
			f, err := strconv.ParseFloat(row[c], 64)
			require.NoError(t, err)
			scaledRows[r][c] = strconv.FormatFloat(f*k, 'g', -1, 64)
		}
	}
	scaled, err := agg.ValidateAndAggregate(mustTable(t, base.Columns(), scaledRows), contract)
	require.NoError(t, err)

	require.Len(t, permuted.Rows, len(summary.Rows))
	require.Len(t, scaled.Rows, len(summary.Rows))
	for r := range summary.Rows {
		assert.Equal(t, summary.Rows[r].Key, permuted.Rows[r].Key)
		for _, metric := range contract.MetricColumns() {
			want, ok := meanOf(t, summary, r, metric)
			require.True(t, ok)

			got, ok := meanOf(t, permuted, r, metric)
			require.True(t, ok)
			assert.InDelta(t, want, got, 1e-9)

			got, ok = meanOf(t, scaled, r, metric)
			require.True(t, ok)
			assert.InDelta(t, want*k, got, 1e-9)
		}
	}
}
