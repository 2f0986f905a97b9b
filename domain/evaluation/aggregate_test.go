package evaluation

import (
	"testing"

	"evaldash/domain/dataset"

	"github.com/stretchr/testify/assert"
)

func TestDefaultContractRequiredOrder(t *testing.T) {
	contract := DefaultContract()

	assert.Equal(t, []string{
		"Prompt_Type",
		"Model",
		"Answer quality (1-5, 0 if it's wrong)",
		"Electricity consumption",
		"CO2 emission",
		"Inference timing (seconds)",
	}, contract.Required())
	assert.Len(t, contract.MetricColumns(), 4)
	assert.Equal(t, 2, contract.MetricIndex(ColumnCO2))
	assert.Equal(t, -1, contract.MetricIndex(ColumnModel))
}

func TestAggregateTableCellFormatting(t *testing.T) {
	table := &AggregateTable{
		Source:   "runs.xlsx",
		Contract: DefaultContract(),
		Rows: []AggregateRow{{
			Key:  GroupKey{PromptType: dataset.NewStringValue("factual"), Model: dataset.NewMissingValue()},
			Rows: 3,
			Means: []dataset.Value{
				dataset.NewNumericValue(10.0 / 3.0),
				dataset.NewMissingValue(),
				dataset.NewNumericValue(0.0126),
				dataset.NewNumericValue(2),
			},
		}},
	}

	assert.Equal(t, "factual", table.Cell(0, 0))
	assert.Equal(t, MissingLabel, table.Cell(0, 1))
	assert.Equal(t, "3.333", table.Cell(0, 2))
	assert.Equal(t, "", table.Cell(0, 3))
	assert.Equal(t, "0.013", table.Cell(0, 4))
	assert.Equal(t, "2.000", table.Cell(0, 5))
	assert.Equal(t, 3, table.TotalRows())

	mean, ok := table.Mean(0, ColumnAnswerQuality)
	assert.True(t, ok)
	f, _ := mean.Float()
	assert.InDelta(t, 10.0/3.0, f, 1e-12)

	_, ok = table.Mean(0, "Unknown")
	assert.False(t, ok)
}

func TestGroupKeyCompare(t *testing.T) {
	a := GroupKey{PromptType: dataset.NewStringValue("factual"), Model: dataset.NewStringValue("B")}
	b := GroupKey{PromptType: dataset.NewStringValue("factual"), Model: dataset.NewStringValue("A")}
	c := GroupKey{PromptType: dataset.NewMissingValue(), Model: dataset.NewStringValue("A")}

	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 0, c.Compare(c))
}

func TestRejectionMessage(t *testing.T) {
	rej := &Rejection{Source: "old.xlsx", Missing: []string{ColumnCO2, ColumnInference}}
	assert.Equal(t, `old.xlsx is missing columns: ["CO2 emission", "Inference timing (seconds)"]`, rej.Error())
}
