package dataset

import (
	"fmt"
	"strconv"
)

// ValueType defines the storage type for values
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeMissing ValueType = "missing"
)

// Value is a coerced cell. The zero Value is missing.
type Value struct {
	Type       ValueType `json:"type"`
	StringVal  string    `json:"string_val,omitempty"`
	NumericVal float64   `json:"numeric_val,omitempty"`
}

// NewStringValue creates a string value
func NewStringValue(s string) Value {
	return Value{Type: ValueTypeString, StringVal: s}
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: n}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing reports whether v carries no value.
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || v.Type == ""
}

// Float returns the numeric payload and whether v is numeric.
func (v Value) Float() (float64, bool) {
	if v.Type != ValueTypeNumeric {
		return 0, false
	}
	return v.NumericVal, true
}

// String returns the string representation of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		return v.StringVal
	case ValueTypeNumeric:
		return strconv.FormatFloat(v.NumericVal, 'f', -1, 64)
	}
	return "<missing>"
}

// Compare orders values for display: strings lexicographically,
// numbers numerically, missing after everything else.
func (v Value) Compare(o Value) int {
	switch {
	case v.IsMissing() && o.IsMissing():
		return 0
	case v.IsMissing():
		return 1
	case o.IsMissing():
		return -1
	}
	if v.Type == ValueTypeNumeric && o.Type == ValueTypeNumeric {
		switch {
		case v.NumericVal < o.NumericVal:
			return -1
		case v.NumericVal > o.NumericVal:
			return 1
		}
		return 0
	}
	a, b := v.String(), o.String()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// GoString is used by %#v in test failure output.
func (v Value) GoString() string {
	return fmt.Sprintf("dataset.Value{%s:%s}", v.Type, v.String())
}
