/*
errors.go - Error types for the payroll engine

ERROR CATEGORIES:
  1. Malformed input - missing required column, unparseable or negative cell
  2. Invalid date    - the holiday value is not a YYYY-MM-DD date
  3. Invalid rules   - a rule set that cannot be used to build a Transformer

There is no row-level partial failure. One bad row fails the whole batch,
because holiday hours, holiday pay and total pay form a strict chain and a
zero-filled row would produce plausible but wrong payroll numbers.

USAGE:
  if errors.Is(err, payroll.ErrMalformedInput) {
      var cellErr *payroll.CellError
      if errors.As(err, &cellErr) { ... cellErr.Row, cellErr.Column ... }
  }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedInput is returned when the shift table cannot be read:
	// a required column is missing or a cell does not parse.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidDate is returned when the holiday cannot be parsed as a
	// calendar date. It is raised before any row is looked at.
	ErrInvalidDate = errors.New("invalid holiday date")

	// ErrInvalidRules is returned by NewTransformer for unusable rules.
	ErrInvalidRules = errors.New("invalid rules")

	// ErrNegativeValue marks a numeric cell below zero. Hours and rates are
	// non-negative by contract; reported inside a CellError.
	ErrNegativeValue = errors.New("value must not be negative")

	// ErrEmptyValue marks a blank cell in a required column.
	ErrEmptyValue = errors.New("value is required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingColumnError reports a required header that is not in the table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("malformed input: missing required column %q", e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMalformedInput
}

// CellError identifies the failing cell. Row is the 1-based data row
// number in input order, not counting the header.
type CellError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("malformed input: row %d, column %q, value %q: %v",
		e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error {
	return ErrMalformedInput
}

// InvalidDateError carries the rejected holiday text.
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid holiday date %q", e.Value)
	}
	return fmt.Sprintf("invalid holiday date %q: %v", e.Value, e.Err)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// RulesError names the rule field that failed validation.
type RulesError struct {
	Field  string
	Reason string
}

func (e *RulesError) Error() string {
	return fmt.Sprintf("invalid rules: %s: %s", e.Field, e.Reason)
}

func (e *RulesError) Unwrap() error {
	return ErrInvalidRules
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRules)
}
