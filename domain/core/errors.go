package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Dataset errors
	ErrUnknownColumn   = errors.New("unknown column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrLengthMismatch  = errors.New("column length mismatch")
	ErrEmptySample     = errors.New("empty sample")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// Test execution errors
	ErrUndeterminedTest  = errors.New("unable to determine an appropriate test")
	ErrUnsupportedTest   = errors.New("test not implemented")
	ErrAnovaTypeMismatch = errors.New("ANOVA requires one numeric and one categorical feature")

	// Persistence errors
	ErrReportNotFound = errors.New("report not found")
)

// Error constructors with context

func NewUnknownColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
}

func NewInvalidConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfiguration, field, reason)
}

func NewUnsupportedTestError(test string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedTest, test)
}

// Error checking helpers

// IsColumnError reports whether err stems from a bad column reference.
// These propagate to the top-level caller rather than being absorbed.
func IsColumnError(err error) bool {
	return errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrDuplicateColumn) ||
		errors.Is(err, ErrLengthMismatch)
}

// IsExecutionError reports whether err is a per-test execution failure
// that batch analysis should absorb and continue past.
func IsExecutionError(err error) bool {
	return errors.Is(err, ErrUndeterminedTest) ||
		errors.Is(err, ErrUnsupportedTest) ||
		errors.Is(err, ErrAnovaTypeMismatch) ||
		errors.Is(err, ErrEmptySample)
}
