// Package coercer converts raw CSV cell text into typed values with
// deterministic rules. Coercion never fails a record: a cell that parses
// as nothing useful comes back as a missing value.
package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"aceintel/domain/record"
)

// Coercer handles deterministic type coercion for raw cell values
type Coercer struct {
	timestampFormats []string
}

// DefaultTimestampFormats lists the layouts tried in order when coercing
// a date-like cell. MTA exports mix ISO dates, US dates, and datetimes.
func DefaultTimestampFormats() []string {
	return []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"01/02/2006 03:04:05 PM",
		"01/02/2006 15:04:05",
		"01/02/2006",
		"2006/01/02",
	}
}

// New creates a coercer with the default timestamp formats
func New() *Coercer {
	return &Coercer{timestampFormats: DefaultTimestampFormats()}
}

// NewWithFormats creates a coercer with custom timestamp formats
func NewWithFormats(formats []string) *Coercer {
	if len(formats) == 0 {
		return New()
	}
	return &Coercer{timestampFormats: formats}
}

// Coerce converts a raw cell to a typed Value: numeric first (most
// restrictive), then timestamp, then string. Empty cells are missing.
func (c *Coercer) Coerce(raw string) record.Value {
	strVal := strings.TrimSpace(raw)
	if strVal == "" {
		return record.NewMissingValue()
	}

	if v, ok := c.TryNumeric(strVal); ok {
		return v
	}
	if v, ok := c.TryTimestamp(strVal); ok {
		return v
	}
	return record.NewStringValue(strVal)
}

// TryNumeric attempts to parse a cell as a number. Thousands separators
// and percent signs are stripped; parenthesized values are negative.
func (c *Coercer) TryNumeric(strVal string) (record.Value, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return record.Value{}, false
	}

	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")
	cleanVal = strings.TrimSpace(cleanVal)

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	if val, err := strconv.ParseFloat(cleanVal, 64); err == nil {
		if !math.IsInf(val, 0) && !math.IsNaN(val) {
			return record.NewNumericValue(val), true
		}
	}

	return record.Value{}, false
}

// TryTimestamp attempts to parse a cell against the configured layouts,
// first match wins. Layout order is fixed so coercion is reproducible.
func (c *Coercer) TryTimestamp(strVal string) (record.Value, bool) {
	strVal = strings.TrimSpace(strVal)
	if strVal == "" {
		return record.Value{}, false
	}

	for _, format := range c.timestampFormats {
		if t, err := time.Parse(format, strVal); err == nil {
			return record.NewTimestampValue(t), true
		}
	}

	return record.Value{}, false
}
