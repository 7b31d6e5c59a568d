/*
errors.go - Centralized error types for the estimation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The workhours package wraps these errors with field-level context.

ERROR CATEGORIES:
  1. Input errors - Malformed CSV, bad form values (user-correctable)
  2. Coverage errors - CSV does not span the reporting period (user-correctable)
  3. Dataset errors - No qualifying work records (user-correctable)
  4. Calendar errors - Holiday data unavailable (internal, logged)

USAGE:
  Callers branch with errors.Is / errors.As:

    if generic.IsClientError(err) {
        var fe *generic.FieldError
        if errors.As(err, &fe) { ... respond with fe.Field -> fe.Message }
    }

SEE ALSO:
  - workhours/csv.go: FormatError
  - workhours/validate.go: ValidationOutcome
  - holiday/calendar.go: ErrCalendarUnsupported
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
	// ErrFormat is returned when the attendance CSV is missing columns or
	// holds values that cannot be parsed.
	ErrFormat = errors.New("invalid attendance data format")

	// ErrRangeCoverage is returned when the supplied records do not span
	// the requested reporting period.
	ErrRangeCoverage = errors.New("records do not cover reporting period")

	// ErrEmptyDataset is returned when no record qualifies for aggregation.
	ErrEmptyDataset = errors.New("no work days in range")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidInput is returned when a declared numeric input is out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCalendarUnsupported is returned when holiday data is not available
	// for a requested year. This is an internal error, not a client one.
	ErrCalendarUnsupported = errors.New("holiday calendar has no data for year")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError ties a user-correctable error to the input field that caused it.
type FieldError struct {
	Field   string // form field identifier, e.g. "jobcan-csv"
	Message string // human-readable, shown next to the field
	Err     error  // one of the sentinels above
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Fields returns the error as a field -> message map.
func (e *FieldError) Fields() map[string]string {
	return map[string]string{e.Field: e.Message}
}

// CalendarError reports which year a holiday lookup failed for.
type CalendarError struct {
	Year     int
	Min, Max int
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("holiday calendar has no data for %d (supported %d-%d)", e.Year, e.Min, e.Max)
}

func (e *CalendarError) Unwrap() error {
	return ErrCalendarUnsupported
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrFormat) ||
		errors.Is(err, ErrRangeCoverage) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
