package mus

import (
	"errors"
	"fmt"
)

// InvalidInputError reports caller-supplied parameters that violate the
// planning or extraction preconditions. These are always correctable by the
// caller and name the offending condition.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// CalculationError reports an internal numeric failure: a non-convergent
// iteration, a degenerate population, or inconsistent interpolation bounds.
// It must never be degraded to a default sample size.
type CalculationError struct {
	Reason string
}

func (e *CalculationError) Error() string {
	return "calculation failed: " + e.Reason
}

func invalidInputf(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

func calculationf(format string, args ...interface{}) error {
	return &CalculationError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsCalculation reports whether err is a CalculationError.
func IsCalculation(err error) bool {
	var target *CalculationError
	return errors.As(err, &target)
}
