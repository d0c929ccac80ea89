/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify errors with errors.Is/errors.As; the HTTP layer maps
  them to status codes.

ERROR CATEGORIES:
  1. Validation errors - rejected before any persistence attempt
  2. Conflict errors   - duplicate (staff, date) shift collisions
  3. Policy errors     - recoverable defaulting during payroll aggregation
  4. Store errors      - missing entities, invalid transitions

USAGE:
  if errors.Is(err, roster.ErrDuplicateShift) {
      // expected during bulk generation: count and continue
  }

SEE ALSO:
  - scheduler.go: Treats duplicate errors as expected during bulk runs
  - policy.go: Produces PolicyResolutionError, recovered by the aggregator
*/
package roster

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when required fields are missing or
	// inconsistent. Surfaced to the caller, never retried.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateShift is returned when a non-cancelled shift already
	// exists for (staff, date). Expected and non-fatal inside bulk
	// generation; fatal for a single explicit create.
	ErrDuplicateShift = errors.New("duplicate shift for staff and date")

	// ErrNotFound is returned when a referenced staff member, shift, or
	// tracking record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned for a shift or payroll status move
	// the state machine does not define.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPolicyResolution is returned when a staff payroll policy is
	// missing required fields. Recoverable: resolution substitutes
	// documented defaults so a payroll view always renders.
	ErrPolicyResolution = errors.New("payroll policy incomplete")

	// ErrInvalidPeriod is returned when a payroll period is malformed.
	ErrInvalidPeriod = errors.New("invalid payroll period")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which field failed validation and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateShiftError reports a (staff, date) shift collision.
type DuplicateShiftError struct {
	StaffID    StaffID
	Date       Date
	ExistingID ShiftID
}

func (e *DuplicateShiftError) Error() string {
	return fmt.Sprintf("shift already exists for %s on %s (shift: %s)",
		e.StaffID, e.Date, e.ExistingID)
}

func (e *DuplicateShiftError) Unwrap() error { return ErrDuplicateShift }

// NotFoundError reports a missing entity by kind and identifier.
type NotFoundError struct {
	Kind string // "staff", "shift", "tracking", "payroll"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PolicyResolutionError lists the policy fields that were missing and
// filled with defaults. The resolved policy returned alongside it is
// fully usable; callers log the error and continue.
type PolicyResolutionError struct {
	StaffID   StaffID
	Defaulted []string
}

func (e *PolicyResolutionError) Error() string {
	return fmt.Sprintf("payroll policy incomplete for %s: defaulted %s",
		e.StaffID, strings.Join(e.Defaulted, ", "))
}

func (e *PolicyResolutionError) Unwrap() error { return ErrPolicyResolution }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsConflict returns true for duplicate-shift collisions.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateShift)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
