/*
Package workhours estimates monthly project-billable hours from an
attendance export.

PURPOSE:
  Turns the rows of an attendance CSV into three figures a contractor
  reports every cycle: hours worked so far, average hours per working day,
  and the projected total for the whole reporting period.

PIPELINE:
  1. ParseCSV:          bytes -> Records (FormatError on bad input)
  2. Validate:          Records must cover the reporting period
  3. Aggregate:         total / average over days with a clock-in
  4. RemainingWorkDays: weekdays left in the period minus holidays and
                        declared time off
  5. Estimate:          total + average * remaining

  Service.Run chains all five for one submission.

ROUNDING:
  Total and average are rounded independently from the same unrounded net
  hours, to two places, half away from zero unless Settings say otherwise.

SEE ALSO:
  - generic/period.go: Reporting period cycles
  - holiday/: National holiday calendar
*/
package workhours

import (
	"time"

	"github.com/warp/hours-estimator/generic"
)

// Input field identifiers. Errors are keyed by these so a form can show
// them next to the offending input.
const (
	FieldStartDate         = "start-date"
	FieldEndDate           = "end-date"
	FieldNonProjectHours   = "non-project-work-hours"
	FieldScheduledHolidays = "scheduled-holidays"
	FieldCSV               = "jobcan-csv"
)

// Column headers of the attendance export.
const (
	ColumnDate         = "日付"
	ColumnClockIn      = "出勤時刻"
	ColumnWorkDuration = "労働時間"
)

// =============================================================================
// ATTENDANCE RECORD
// =============================================================================

// AttendanceRecord is one day of the export.
type AttendanceRecord struct {
	Date         generic.TimePoint
	ClockIn      string // empty when the worker did not clock in
	WorkDuration time.Duration
	Line         int // line number in the CSV, header is line 1
}

// Worked reports whether the day counts as a working day.
func (r AttendanceRecord) Worked() bool {
	return r.ClockIn != ""
}

// Records is a day-ordered list of attendance rows.
type Records []AttendanceRecord

// Worked returns the records that have a clock-in time.
func (rs Records) Worked() Records {
	out := make(Records, 0, len(rs))
	for _, r := range rs {
		if r.Worked() {
			out = append(out, r)
		}
	}
	return out
}

// Within returns the records dated inside p.
func (rs Records) Within(p generic.Period) Records {
	out := make(Records, 0, len(rs))
	for _, r := range rs {
		if p.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// Span returns the earliest and latest record dates. ok is false when
// there are no records.
func (rs Records) Span() (span generic.Period, ok bool) {
	if len(rs) == 0 {
		return generic.Period{}, false
	}
	span = generic.Period{Start: rs[0].Date, End: rs[0].Date}
	for _, r := range rs[1:] {
		if r.Date.Before(span.Start) {
			span.Start = r.Date
		}
		if r.Date.After(span.End) {
			span.End = r.Date
		}
	}
	return span, true
}

// =============================================================================
// RESULTS
// =============================================================================

// AggregationResult holds the hours worked so far.
type AggregationResult struct {
	TotalHours         generic.Amount
	AverageHoursPerDay generic.Amount
	RealWorkDays       int
}

// ValidationOutcome is the result of checking records against a period.
type ValidationOutcome struct {
	Valid  bool
	Errors map[string]string
	err    error
}

// Err returns the outcome as an error, or nil when valid.
func (o ValidationOutcome) Err() error {
	if o.Valid {
		return nil
	}
	return o.err
}

func invalid(field, message string, sentinel error) ValidationOutcome {
	return ValidationOutcome{
		Valid:  false,
		Errors: map[string]string{field: message},
		err:    &generic.FieldError{Field: field, Message: message, Err: sentinel},
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings tune the reporting convention.
type Settings struct {
	Period   generic.PeriodConfig
	Rounding generic.Rounding
	Places   int32
}

// DefaultSettings is a 21st-to-20th cycle rounded half up to 2 places.
func DefaultSettings() Settings {
	return Settings{
		Period:   generic.DefaultPeriodConfig(),
		Rounding: generic.RoundHalfUp,
		Places:   2,
	}
}

func (s Settings) round(a generic.Amount) generic.Amount {
	return a.Round(s.Rounding, s.Places)
}
