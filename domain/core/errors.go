package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Loading errors
	ErrNoData       = errors.New("no data loaded from either dataset")
	ErrFileRead     = errors.New("file could not be read")
	ErrUnsupported  = errors.New("unsupported file type")
	ErrDataDir      = errors.New("data directory unavailable")
	ErrEmptyDataset = errors.New("dataset contains no rows")

	// Configuration errors
	ErrInvalidBucket      = errors.New("invalid time bucket width")
	ErrInvalidAggregation = errors.New("invalid speed aggregation")
)

// Error constructors with context
func NewFileReadError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrFileRead, path, err)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsNoDataError(err error) bool {
	return errors.Is(err, ErrNoData)
}

func IsFileReadError(err error) bool {
	return errors.Is(err, ErrFileRead)
}
