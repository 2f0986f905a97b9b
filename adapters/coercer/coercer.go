package coercer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"evaldash/domain/dataset"
)

// TypeCoercer turns raw spreadsheet cell text into typed values.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	NumericThreshold float64 `json:"numeric_threshold"` // share of non-empty cells that must parse for a column to count as numeric
	TrimNumeric      bool    `json:"trim_numeric"`      // strip surrounding whitespace before numeric parsing
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 0.8,
		TrimNumeric:      true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// ErrEmpty is returned by ParseNumeric for blank cells.
var ErrEmpty = errors.New("empty cell")

// ParseNumeric parses a decimal or scientific-notation number. NaN and
// infinities are rejected so every parsed value is finite, and hexadecimal
// forms such as "0x1p3" are not numbers.
func (c *TypeCoercer) ParseNumeric(raw string) (float64, error) {
	s := raw
	if c.config.TrimNumeric {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return 0, ErrEmpty
	}
	if hasHexPrefix(s) {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return val, nil
}

func hasHexPrefix(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ToNumeric coerces raw to a numeric value, falling back to missing when
// the text is not a number. It never fails.
func (c *TypeCoercer) ToNumeric(raw string) dataset.Value {
	val, err := c.ParseNumeric(raw)
	if err != nil {
		return dataset.NewMissingValue()
	}
	return dataset.NewNumericValue(val)
}

// ToCategorical keeps the cell text verbatim so grouping compares exact
// strings. Only an empty cell is missing.
func (c *TypeCoercer) ToCategorical(raw string) dataset.Value {
	if raw == "" {
		return dataset.NewMissingValue()
	}
	return dataset.NewStringValue(raw)
}

// AnalyzeTypeDistribution counts how many cells of a column are numeric.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			analysis.EmptyCount++
			continue
		}
		analysis.ValidCount++
		if _, err := c.ParseNumeric(raw); err == nil {
			analysis.NumericCount++
		} else {
			analysis.RejectedCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	analysis.IsNumeric = analysis.ValidCount > 0 && analysis.NumericRatio >= c.config.NumericThreshold

	return analysis
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount    int     `json:"total_count"`
	ValidCount    int     `json:"valid_count"`
	EmptyCount    int     `json:"empty_count"`
	NumericCount  int     `json:"numeric_count"`
	RejectedCount int     `json:"rejected_count"`
	NumericRatio  float64 `json:"numeric_ratio"`
	IsNumeric     bool    `json:"is_numeric"`
}
