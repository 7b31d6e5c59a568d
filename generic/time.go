package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day abstraction used for records, periods and holidays
// =============================================================================

// TimePoint is a calendar day. Time holds midnight UTC of that day.
type TimePoint struct {
	Time time.Time
}

// Date layouts used across the service.
const (
	LayoutISO   = "2006-01-02" // API, datepicker values
	LayoutSlash = "2006/01/02" // attendance export date column
)

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates t to its calendar day in t's own location.
func DayOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseTimePoint parses a day-granularity date with the given layout.
func ParseTimePoint(layout, value string) (TimePoint, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return TimePoint{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return DayOf(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, 0, n)}
}
func (tp TimePoint) AddMonths(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, n, 0)}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Key is the day's ISO string, used as a map key for holiday tables.
func (tp TimePoint) Key() string { return tp.normalize().Format(LayoutISO) }

func (tp TimePoint) String() string { return tp.Time.Format(LayoutISO) }

// MinTimePoint returns the earlier of two points.
func MinTimePoint(a, b TimePoint) TimePoint {
	if b.Before(a) {
		return b
	}
	return a
}

// =============================================================================
// HOLIDAY CALENDAR - National holidays and company closures
// =============================================================================

// HolidaySource tells where a holiday came from.
type HolidaySource string

const (
	SourceNational HolidaySource = "national"
	SourceCompany  HolidaySource = "company"
)

// Holiday is a non-working day that is not a weekend.
type Holiday struct {
	ID        string
	Date      TimePoint
	Name      string
	Source    HolidaySource
	Recurring bool // same month/day every year (company closures only)
}

// HolidayCalendar provides holiday lookup functionality.
// Implementations return ErrCalendarUnsupported for years they have no data for.
type HolidayCalendar interface {
	IsHoliday(date TimePoint) (bool, error)

	// HolidaysBetween returns holidays in [from, to], sorted by date.
	HolidaysBetween(from, to TimePoint) ([]Holiday, error)
}

// NoHolidays is a calendar without any holidays. Only weekends are days off.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(TimePoint) (bool, error)               { return false, nil }
func (NoHolidays) HolidaysBetween(_, _ TimePoint) ([]Holiday, error) { return nil, nil }

// IsWorkdayWithHolidays checks if a date is a working day, considering holidays.
func (tp TimePoint) IsWorkdayWithHolidays(calendar HolidayCalendar) (bool, error) {
	if tp.IsWeekend() {
		return false, nil
	}
	if calendar == nil {
		return true, nil
	}
	holiday, err := calendar.IsHoliday(tp)
	if err != nil {
		return false, err
	}
	return !holiday, nil
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }
func EndOfMonth(year int, month time.Month) TimePoint {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return TimePoint{Time: t}
}
