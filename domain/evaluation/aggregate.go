package evaluation

import (
	"fmt"
	"strings"

	"evaldash/domain/dataset"

	"github.com/montanaflynn/stats"
)

// DisplayPrecision is the number of decimals shown for aggregate means.
const DisplayPrecision = 3

// GroupKey identifies one (Prompt_Type, Model) pair. Either side may be missing.
type GroupKey struct {
	PromptType dataset.Value
	Model      dataset.Value
}

// Compare orders keys by prompt type, then model, missing values last.
func (k GroupKey) Compare(o GroupKey) int {
	if c := k.PromptType.Compare(o.PromptType); c != 0 {
		return c
	}
	return k.Model.Compare(o.Model)
}

// AggregateRow holds the per-metric means of one group.
type AggregateRow struct {
	Key GroupKey
	// Rows is the number of source rows that fell into the group.
	Rows int
	// Means follows the contract's metric order. A mean is missing when
	// every value of that metric in the group was missing.
	Means []dataset.Value
}

// AggregateTable is the per-group summary of one dataset.
type AggregateTable struct {
	Source   string
	Contract Contract
	Rows     []AggregateRow
	// Profiles follows the contract's metric order.
	Profiles []MetricProfile
}

// MetricProfile describes how the cells of one metric column coerced.
type MetricProfile struct {
	Column string
	Total  int
	Empty  int
	// Numeric and Rejected split the non-empty cells. Rejected cells were
	// not numbers and count as missing.
	Numeric  int
	Rejected int
	// NumericRatio is Numeric over the non-empty cells, zero when there
	// are none.
	NumericRatio float64
	// Mostly is set when NumericRatio reaches the coercer's threshold.
	Mostly bool
}

// Columns returns the display header: group-by columns then metrics.
func (t *AggregateTable) Columns() []string {
	return t.Contract.Required()
}

// Cell formats row r, column c for display. Means are rounded to
// DisplayPrecision decimals; missing cells render as an empty string.
func (t *AggregateTable) Cell(r, c int) string {
	row := t.Rows[r]
	switch c {
	case 0:
		return displayKey(row.Key.PromptType)
	case 1:
		return displayKey(row.Key.Model)
	}
	return FormatMean(row.Means[c-2])
}

// Mean returns the unrounded mean for metric column name in row r.
func (t *AggregateTable) Mean(r int, column string) (dataset.Value, bool) {
	i := t.Contract.MetricIndex(column)
	if i < 0 {
		return dataset.Value{}, false
	}
	return t.Rows[r].Means[i], true
}

// Profile returns the coercion profile of metric column name.
func (t *AggregateTable) Profile(column string) (MetricProfile, bool) {
	i := t.Contract.MetricIndex(column)
	if i < 0 || i >= len(t.Profiles) {
		return MetricProfile{}, false
	}
	return t.Profiles[i], true
}

// TotalRows sums the source row counts across all groups.
func (t *AggregateTable) TotalRows() int {
	n := 0
	for _, row := range t.Rows {
		n += row.Rows
	}
	return n
}

// MissingLabel is shown in place of a missing group key.
const MissingLabel = "(missing)"

func displayKey(v dataset.Value) string {
	if v.IsMissing() {
		return MissingLabel
	}
	return v.String()
}

// FormatMean renders a mean rounded for display.
func FormatMean(v dataset.Value) string {
	f, ok := v.Float()
	if !ok {
		return ""
	}
	rounded, err := stats.Round(f, DisplayPrecision)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%.*f", DisplayPrecision, rounded)
}

// Rejection reports the required columns a dataset lacks.
type Rejection struct {
	Source  string
	Missing []string
}

func (r *Rejection) Error() string {
	quoted := make([]string, len(r.Missing))
	for i, m := range r.Missing {
		quoted[i] = fmt.Sprintf("%q", m)
	}
	return fmt.Sprintf("%s is missing columns: [%s]", r.Source, strings.Join(quoted, ", "))
}
