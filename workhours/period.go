package workhours

import (
	"time"

	"github.com/warp/hours-estimator/generic"
)

// ResolveDefaultPeriod returns the 21st-to-20th cycle that contains now.
// Only the calendar date of now, in now's location, is used.
func ResolveDefaultPeriod(now time.Time) generic.Period {
	return DefaultSettings().ResolvePeriod(now)
}

// ResolvePeriod returns the configured cycle that contains now.
func (s Settings) ResolvePeriod(now time.Time) generic.Period {
	return s.Period.PeriodFor(generic.DayOf(now))
}
