package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Since returns the time elapsed since t.
func (t Timestamp) Since() time.Duration {
	return time.Since(time.Time(t))
}
