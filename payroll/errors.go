/*
errors.go - Error types for the payroll engine

ERROR CATEGORIES:
  1. Input errors - An employee or record lacks what pay computation needs
  2. Lookup errors - A referenced employee does not exist
  3. Run errors - A payday aborted while processing one employee

A failing employee aborts the whole payday. Payments written before the
failure stay written; PaydayError names the employee that stopped the run.
*/
package payroll

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingField is returned when a field required by the employee's
	// pay scheme is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrUnknownScheme is returned for a PayScheme value the rules do not handle.
	ErrUnknownScheme = errors.New("unknown pay scheme")

	// ErrEmployeeNotFound is returned by collaborators for an unknown employee ID.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrPaymentNotFound is returned by stores for an unknown payment ID.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrWrongScheme is returned when a record does not fit the employee's scheme
	// (e.g. a time record for a salaried employee).
	ErrWrongScheme = errors.New("record does not match employee pay scheme")

	// ErrInvalidRecord is returned for malformed input.
	ErrInvalidRecord = errors.New("invalid record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingFieldError names the absent field.
type MissingFieldError struct {
	EmployeeID EmployeeID
	Field      string
}

func (e *MissingFieldError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return fmt.Sprintf("employee %s: missing required field %q", e.EmployeeID, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// PaydayError reports the employee whose processing aborted a payday run.
type PaydayError struct {
	EmployeeID EmployeeID
	Date       time.Time
	Err        error
}

func (e *PaydayError) Error() string {
	return fmt.Sprintf("payday %s: employee %s: %v", e.Date.Format(DateLayout), e.EmployeeID, e.Err)
}

func (e *PaydayError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidRecord) ||
		errors.Is(err, ErrWrongScheme)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}
