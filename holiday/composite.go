package holiday

import (
	"sort"

	"github.com/warp/hours-estimator/generic"
)

// Composite layers company closures on top of a national calendar.
// Closures are loaded up front for the range being evaluated, so lookups
// never touch the store.
type Composite struct {
	national generic.HolidayCalendar
	closures map[string]generic.Holiday
}

// WithClosures merges closures into national. A closure on a day that is
// already a national holiday does not count twice.
func WithClosures(national generic.HolidayCalendar, closures []generic.Holiday) *Composite {
	c := &Composite{
		national: national,
		closures: make(map[string]generic.Holiday, len(closures)),
	}
	for _, h := range closures {
		h.Source = generic.SourceCompany
		c.closures[h.Date.Key()] = h
	}
	return c
}

// IsHoliday implements generic.HolidayCalendar.
func (c *Composite) IsHoliday(date generic.TimePoint) (bool, error) {
	if c.national != nil {
		ok, err := c.national.IsHoliday(date)
		if err != nil || ok {
			return ok, err
		}
	}
	_, ok := c.closures[date.Key()]
	return ok, nil
}

// HolidaysBetween implements generic.HolidayCalendar.
func (c *Composite) HolidaysBetween(from, to generic.TimePoint) ([]generic.Holiday, error) {
	var out []generic.Holiday
	seen := make(map[string]bool)
	if c.national != nil {
		national, err := c.national.HolidaysBetween(from, to)
		if err != nil {
			return nil, err
		}
		for _, h := range national {
			seen[h.Date.Key()] = true
			out = append(out, h)
		}
	}
	for key, h := range c.closures {
		if seen[key] || h.Date.Before(from) || h.Date.After(to) {
			continue
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
