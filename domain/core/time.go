package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// BucketWidth is the discretization interval used to align timestamps
// from independently sampled sources. Buckets always truncate toward
// the earlier boundary in UTC so resolution is reproducible across runs
// and independent of input ordering.
type BucketWidth time.Duration

// Common bucket widths
const (
	BucketHour BucketWidth = BucketWidth(time.Hour)
	BucketDay  BucketWidth = BucketWidth(24 * time.Hour)
)

// Duration returns the underlying time.Duration
func (w BucketWidth) Duration() time.Duration {
	return time.Duration(w)
}

// Truncate maps a timestamp to its bucket boundary. The rounding rule is
// fixed: truncate toward the earlier boundary, aligned to the Unix epoch
// in UTC (midnight-aligned for day buckets).
func (w BucketWidth) Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(w.Duration())
}

// String representations
func (w BucketWidth) String() string { return w.Duration().String() }

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}
