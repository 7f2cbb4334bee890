/*
errors.go - Centralized error types for the planning engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is against the sentinels; structured errors
  carry the detail and unwrap to them.

ERROR CATEGORIES:
  1. Parameter errors - Rejected requests, never retried
  2. Divergence errors - Generator exceeded its iteration cap
  3. Store errors - Missing records

SEE ALSO:
  - leave/generator.go: Raises parameter and divergence errors
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidParameters is returned when a generation request is malformed:
	// non-positive budget, missing or impossible start date, unknown mode.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrPolicyDivergence is returned when the generator exceeds its
	// iteration cap without exhausting the budget.
	ErrPolicyDivergence = errors.New("policy diverged")

	// ErrScheduleNotFound is returned when a saved schedule doesn't exist.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrHolidayNotFound is returned when a holiday doesn't exist.
	ErrHolidayNotFound = errors.New("holiday not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidParametersError names the offending field.
type InvalidParametersError struct {
	Field  string
	Reason string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid parameters: %s: %s", e.Field, e.Reason)
}

func (e *InvalidParametersError) Unwrap() error {
	return ErrInvalidParameters
}

// PolicyDivergenceError reports how far the generator got before giving up.
type PolicyDivergenceError struct {
	Mode       AllocationMode
	Iterations int
	Remaining  Amount
}

func (e *PolicyDivergenceError) Error() string {
	return fmt.Sprintf("policy %s did not converge after %d iterations (remaining budget %v %s)",
		e.Mode, e.Iterations, e.Remaining.Value, e.Remaining.Unit)
}

func (e *PolicyDivergenceError) Unwrap() error {
	return ErrPolicyDivergence
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidParameters) ||
		errors.Is(err, ErrPolicyDivergence)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScheduleNotFound) ||
		errors.Is(err, ErrHolidayNotFound)
}
