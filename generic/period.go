package generic

import "fmt"

// =============================================================================
// PERIOD - The reporting range hours are aggregated over
// =============================================================================

// Period is an inclusive day range [Start, End].
//
// Examples:
//   - Billing cycle: Jan 21 - Feb 20
//   - Calendar month: Mar 1 - Mar 31
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod builds a period and enforces Start <= End.
func NewPeriod(start, end TimePoint) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate returns ErrInvalidPeriod when End is before Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, p)
	}
	return nil
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PeriodType defines how periods are calculated
type PeriodType string

const (
	PeriodMonthlyCycle  PeriodType = "monthly_cycle"  // CycleStartDay of M-1 to CycleStartDay-1 of M
	PeriodCalendarMonth PeriodType = "calendar_month" // 1st to last day of month
)

// DefaultCycleStartDay is the first day of the standard 21st-to-20th cycle.
const DefaultCycleStartDay = 21

// PeriodConfig defines how to calculate reporting periods.
type PeriodConfig struct {
	Type PeriodType

	// For monthly cycles: the day (1-28) a cycle starts on.
	CycleStartDay int
}

// DefaultPeriodConfig is the 21st-to-20th monthly cycle.
func DefaultPeriodConfig() PeriodConfig {
	return PeriodConfig{Type: PeriodMonthlyCycle, CycleStartDay: DefaultCycleStartDay}
}

// =============================================================================
// PERIOD CALCULATOR - Determines which period a date falls into
// =============================================================================

// PeriodFor returns the period that contains the given date
func (pc PeriodConfig) PeriodFor(date TimePoint) Period {
	switch pc.Type {
	case PeriodCalendarMonth:
		return Period{
			Start: StartOfMonth(date.Year(), date.Month()),
			End:   EndOfMonth(date.Year(), date.Month()),
		}

	case PeriodMonthlyCycle:
		return pc.cyclePeriod(date)

	default:
		return DefaultPeriodConfig().cyclePeriod(date)
	}
}

// cyclePeriod anchors on the 1st of the month so AddMonths never overflows
// into the following month. A cycle starting on day 1 is a calendar month.
func (pc PeriodConfig) cyclePeriod(date TimePoint) Period {
	startDay := pc.CycleStartDay
	if startDay < 1 || startDay > 28 {
		startDay = DefaultCycleStartDay
	}
	if startDay == 1 {
		return Period{
			Start: StartOfMonth(date.Year(), date.Month()),
			End:   EndOfMonth(date.Year(), date.Month()),
		}
	}

	anchor := StartOfMonth(date.Year(), date.Month())
	if date.Day() < startDay {
		anchor = anchor.AddMonths(-1)
	}

	start := NewTimePoint(anchor.Year(), anchor.Month(), startDay)
	next := anchor.AddMonths(1)
	end := NewTimePoint(next.Year(), next.Month(), startDay-1)
	return Period{Start: start, End: end}
}
