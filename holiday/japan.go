package holiday

import (
	"math"
	"time"

	cal "github.com/rickar/cal/v2"
)

// RulesVersion names the revision of the Public Holiday Act encoded below.
// Bump it whenever a rule or a one-off date changes.
const RulesVersion = "jp-2021.1"

// Range of years the equinox approximation is accurate for.
const (
	JapanMinYear = 2000
	JapanMaxYear = 2099
)

func fixed(name string, month time.Month, day, from, to int) *cal.Holiday {
	return &cal.Holiday{
		Name:      name,
		Type:      cal.ObservancePublic,
		Month:     month,
		Day:       day,
		StartYear: from,
		EndYear:   to,
		Func:      cal.CalcDayOfMonth,
	}
}

// nthMonday is a "Happy Monday" holiday: the nth Monday of month.
func nthMonday(name string, month time.Month, n, from, to int) *cal.Holiday {
	return &cal.Holiday{
		Name:      name,
		Type:      cal.ObservancePublic,
		Month:     month,
		Weekday:   time.Monday,
		Offset:    n,
		StartYear: from,
		EndYear:   to,
		Func:      cal.CalcWeekdayOffset,
	}
}

func equinox(name string, month time.Month, base float64) *cal.Holiday {
	return &cal.Holiday{
		Name:  name,
		Type:  cal.ObservancePublic,
		Month: month,
		Func: func(h *cal.Holiday, year int) time.Time {
			return time.Date(year, h.Month, equinoxDay(base, year), 0, 0, 0, 0, time.UTC)
		},
	}
}

// equinoxDay approximates the equinox date in JST for 1980-2099.
func equinoxDay(base float64, year int) int {
	y := float64(year - 1980)
	return int(math.Floor(base+0.242194*y)) - (year-1980)/4
}

// japanRules are the recurring national holidays. Years where a holiday was
// moved by special law are cut out of the recurring rule and listed in
// japanSpecial instead.
var japanRules = []*cal.Holiday{
	fixed("New Year's Day", time.January, 1, 0, 0),
	nthMonday("Coming of Age Day", time.January, 2, 2000, 0),
	fixed("National Foundation Day", time.February, 11, 0, 0),
	fixed("Emperor's Birthday", time.February, 23, 2020, 0),
	equinox("Vernal Equinox Day", time.March, 20.8431),
	fixed("Greenery Day", time.April, 29, 1989, 2006),
	fixed("Showa Day", time.April, 29, 2007, 0),
	fixed("Constitution Memorial Day", time.May, 3, 0, 0),
	fixed("Greenery Day", time.May, 4, 2007, 0),
	fixed("Children's Day", time.May, 5, 0, 0),
	fixed("Marine Day", time.July, 20, 1996, 2002),
	nthMonday("Marine Day", time.July, 3, 2003, 2019),
	nthMonday("Marine Day", time.July, 3, 2022, 0),
	fixed("Mountain Day", time.August, 11, 2016, 2019),
	fixed("Mountain Day", time.August, 11, 2022, 0),
	fixed("Respect for the Aged Day", time.September, 15, 1966, 2002),
	nthMonday("Respect for the Aged Day", time.September, 3, 2003, 0),
	equinox("Autumnal Equinox Day", time.September, 23.2488),
	nthMonday("Health and Sports Day", time.October, 2, 2000, 2019),
	nthMonday("Sports Day", time.October, 2, 2022, 0),
	fixed("Culture Day", time.November, 3, 0, 0),
	fixed("Labor Thanksgiving Day", time.November, 23, 0, 0),
	fixed("Emperor's Birthday", time.December, 23, 1989, 2018),
}

// japanSpecial holds one-off holidays enacted by special law.
var japanSpecial = map[string]string{
	"2019-04-30": "Citizens' Holiday",
	"2019-05-01": "Enthronement Day",
	"2019-05-02": "Citizens' Holiday",
	"2019-10-22": "Enthronement Ceremony Day",
	"2020-07-23": "Marine Day",
	"2020-07-24": "Sports Day",
	"2020-08-10": "Mountain Day",
	"2021-07-22": "Marine Day",
	"2021-07-23": "Sports Day",
	"2021-08-08": "Mountain Day",
}

// substituteRuleYear is when the substitute holiday rule started to skip
// over consecutive holidays instead of only checking the next Monday.
const substituteRuleYear = 2007

// Japan returns the national holiday calendar of Japan.
func Japan() *Calendar {
	return japan()
}

var japan = onceCalendar(func() *Calendar {
	return New(Options{
		Rules:              japanRules,
		Special:            japanSpecial,
		MinYear:            JapanMinYear,
		MaxYear:            JapanMaxYear,
		SubstituteName:     "Substitute Holiday",
		SandwichName:       "Citizens' Holiday",
		SubstituteSkipFrom: substituteRuleYear,
	})
})
