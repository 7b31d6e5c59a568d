/*
Package holiday answers "is this day a public holiday?" for the estimator.

PURPOSE:
  Wraps a national holiday definition (rickar/cal rules plus a static table
  of one-off days) as a pure lookup from a date range to holiday dates.
  No network calls: the whole table is computed when the calendar is built.

DERIVED HOLIDAYS:
  Substitute holiday: a holiday on Sunday moves the day off to the next
  day that is not itself a holiday.
  Sandwich holiday: a day whose previous and next days are both national
  holidays is a holiday too.

SEE ALSO:
  - japan.go: Rule set for Japan
  - composite.go: National holidays plus company closures
*/
package holiday

import (
	"sort"
	"sync"
	"time"

	cal "github.com/rickar/cal/v2"

	"github.com/warp/hours-estimator/generic"
)

// Options configures a Calendar.
type Options struct {
	Rules   []*cal.Holiday
	Special map[string]string // ISO date -> name

	MinYear, MaxYear int

	// SubstituteName enables substitute holidays when non-empty.
	SubstituteName string

	// SandwichName enables sandwich holidays when non-empty.
	SandwichName string

	// From this year on, a substitute skips forward over consecutive
	// holidays. Before it, the substitute is only granted when the day after
	// is free.
	SubstituteSkipFrom int
}

// Calendar is a precomputed holiday table. It is read-only after New and
// safe for concurrent use.
type Calendar struct {
	minYear, maxYear int
	days             map[string]generic.Holiday
	byYear           map[int][]generic.Holiday
}

// New evaluates all rules for every supported year.
func New(opts Options) *Calendar {
	c := &Calendar{
		minYear: opts.MinYear,
		maxYear: opts.MaxYear,
		days:    make(map[string]generic.Holiday),
		byYear:  make(map[int][]generic.Holiday),
	}
	for year := opts.MinYear; year <= opts.MaxYear; year++ {
		for _, h := range buildYear(opts, year) {
			c.days[h.Date.Key()] = h
			c.byYear[year] = append(c.byYear[year], h)
		}
	}
	return c
}

func buildYear(opts Options, year int) []generic.Holiday {
	national := make(map[string]string)
	for _, rule := range opts.Rules {
		actual, _ := rule.Calc(year)
		if actual.IsZero() || actual.Year() != year {
			continue
		}
		national[generic.DayOf(actual).Key()] = rule.Name
	}
	for date, name := range opts.Special {
		tp, err := generic.ParseTimePoint(generic.LayoutISO, date)
		if err != nil || tp.Year() != year {
			continue
		}
		national[tp.Key()] = name
	}

	derived := make(map[string]string)
	isOff := func(tp generic.TimePoint) bool {
		_, n := national[tp.Key()]
		_, d := derived[tp.Key()]
		return n || d
	}

	if opts.SubstituteName != "" {
		for _, date := range sortedKeys(national) {
			tp, _ := generic.ParseTimePoint(generic.LayoutISO, date)
			if tp.Weekday() != time.Sunday {
				continue
			}
			next := tp.AddDays(1)
			if year < opts.SubstituteSkipFrom {
				if !isOff(next) {
					derived[next.Key()] = opts.SubstituteName
				}
				continue
			}
			for isOff(next) {
				next = next.AddDays(1)
			}
			derived[next.Key()] = opts.SubstituteName
		}
	}

	if opts.SandwichName != "" {
		start := generic.NewTimePoint(year, time.January, 2)
		end := generic.NewTimePoint(year, time.December, 30)
		for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
			if isOff(d) {
				continue
			}
			_, before := national[d.AddDays(-1).Key()]
			_, after := national[d.AddDays(1).Key()]
			if before && after {
				derived[d.Key()] = opts.SandwichName
			}
		}
	}

	holidays := make([]generic.Holiday, 0, len(national)+len(derived))
	for _, src := range []map[string]string{national, derived} {
		for date, name := range src {
			tp, _ := generic.ParseTimePoint(generic.LayoutISO, date)
			holidays = append(holidays, generic.Holiday{
				ID:     "jp-" + date,
				Date:   tp,
				Name:   name,
				Source: generic.SourceNational,
			})
		}
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Calendar) checkYear(year int) error {
	if year < c.minYear || year > c.maxYear {
		return &generic.CalendarError{Year: year, Min: c.minYear, Max: c.maxYear}
	}
	return nil
}

// IsHoliday implements generic.HolidayCalendar.
func (c *Calendar) IsHoliday(date generic.TimePoint) (bool, error) {
	if err := c.checkYear(date.Year()); err != nil {
		return false, err
	}
	_, ok := c.days[date.Key()]
	return ok, nil
}

// HolidaysBetween implements generic.HolidayCalendar.
func (c *Calendar) HolidaysBetween(from, to generic.TimePoint) ([]generic.Holiday, error) {
	if to.Before(from) {
		return nil, nil
	}
	var out []generic.Holiday
	for year := from.Year(); year <= to.Year(); year++ {
		if err := c.checkYear(year); err != nil {
			return nil, err
		}
		for _, h := range c.byYear[year] {
			if h.Date.AfterOrEqual(from) && h.Date.BeforeOrEqual(to) {
				out = append(out, h)
			}
		}
	}
	return out, nil
}

func onceCalendar(build func() *Calendar) func() *Calendar {
	var (
		once sync.Once
		c    *Calendar
	)
	return func() *Calendar {
		once.Do(func() { c = build() })
		return c
	}
}
