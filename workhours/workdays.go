package workhours

import (
	"github.com/warp/hours-estimator/generic"
)

// RemainingWorkDays counts the weekdays from min(now, end) through end,
// inclusive, that are not holidays, then subtracts the declared scheduled
// holidays. The result may be fractional and may be negative.
func RemainingWorkDays(scheduled generic.Amount, now, end generic.TimePoint, calendar generic.HolidayCalendar) (generic.Amount, error) {
	base := generic.MinTimePoint(now, end)

	n, err := NetworkDays(base, end, calendar)
	if err != nil {
		return generic.Amount{}, err
	}

	days := generic.NewAmountFromInt(n, generic.UnitDays)
	return days.Sub(scheduled), nil
}

// NetworkDays counts the days in [from, to] that are Monday-Friday and not
// a holiday of calendar. A nil calendar only excludes weekends. Returns 0
// when to is before from.
func NetworkDays(from, to generic.TimePoint, calendar generic.HolidayCalendar) (int, error) {
	count := 0
	for _, d := range (generic.Period{Start: from, End: to}).Days() {
		ok, err := d.IsWorkdayWithHolidays(calendar)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}
