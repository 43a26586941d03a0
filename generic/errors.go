/*
errors.go - Centralized error types

PURPOSE:
  The computation core never fails: degenerate input produces empty output.
  Errors only exist at the edges, where external representations are turned
  into planner values (share tokens, tax tables, API payloads, storage) and
  where a session is asked to edit something that does not exist.

USAGE:
  if errors.Is(err, generic.ErrInvalidToken) {
      // show an empty planner instead of the shared one
  }

SEE ALSO:
  - urlstate/codec.go: wraps ErrInvalidToken in DecodeError
  - planner/session.go: ErrPeriodNotFound
  - factory/taxtable.go: ErrInvalidTaxTable
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
	// ErrInvalidDate is returned when a date key cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidToken is returned when a share token cannot be decoded.
	ErrInvalidToken = errors.New("invalid share token")

	// ErrUnknownLeaveType is returned for leave type names or codes outside the registry.
	ErrUnknownLeaveType = errors.New("unknown leave type")

	// ErrPeriodNotFound is returned when editing or removing a leave period that does not exist.
	ErrPeriodNotFound = errors.New("leave period not found")

	// ErrInvalidWorkWeek is returned when a work week pattern is not five days per week.
	ErrInvalidWorkWeek = errors.New("invalid work week pattern")

	// ErrInvalidTaxTable is returned when a tax year definition is malformed.
	ErrInvalidTaxTable = errors.New("invalid tax table")

	// ErrSessionNotFound is returned when a planner session id is unknown.
	ErrSessionNotFound = errors.New("planner session not found")

	// ErrInvalidInput is returned for malformed API or CLI payloads.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DecodeError points at the field of an external representation that failed.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidToken
}

// Cause returns the underlying parse error.
func (e *DecodeError) Cause() error {
	return e.Err
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUnknownLeaveType) ||
		errors.Is(err, ErrInvalidWorkWeek) ||
		errors.Is(err, ErrInvalidTaxTable) ||
		errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPeriodNotFound) || errors.Is(err, ErrSessionNotFound)
}
