package holiday_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/holiday"
)

func day(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

func TestJapan_KnownHolidays(t *testing.T) {
	cal := holiday.Japan()

	holidays := []generic.TimePoint{
		day(2024, time.January, 1),
		day(2024, time.January, 8),   // Coming of Age Day, 2nd Monday
		day(2024, time.February, 12), // substitute for Sunday Feb 11
		day(2024, time.March, 20),    // Vernal Equinox
		day(2024, time.September, 22),
		day(2024, time.September, 23), // substitute for Sunday Sep 22
		day(2024, time.November, 4),   // substitute for Sunday Nov 3
		day(2025, time.January, 13),
		day(2025, time.February, 24), // substitute for Sunday Feb 23
		day(2025, time.March, 20),
		day(2025, time.July, 21), // Marine Day, 3rd Monday
		day(2025, time.August, 11),
		day(2025, time.September, 15),
		day(2025, time.September, 23),
		day(2025, time.October, 13),
		day(2026, time.May, 6),        // substitute skips over May 4 and 5
		day(2026, time.September, 22), // between Sep 21 and Sep 23
		day(2019, time.May, 1),
		day(2020, time.July, 24),
		day(2021, time.August, 9), // substitute for Sunday Aug 8
	}
	for _, d := range holidays {
		ok, err := cal.IsHoliday(d)
		require.NoError(t, err)
		assert.True(t, ok, "%s should be a holiday", d)
	}

	workdays := []generic.TimePoint{
		day(2024, time.January, 2),
		day(2024, time.March, 21),
		day(2025, time.February, 25),
		day(2020, time.July, 20),    // Marine Day moved to Jul 23 that year
		day(2021, time.October, 11), // Sports Day moved to Jul 23 that year
		day(2025, time.December, 23),
	}
	for _, d := range workdays {
		ok, err := cal.IsHoliday(d)
		require.NoError(t, err)
		assert.False(t, ok, "%s should not be a holiday", d)
	}
}

func TestJapan_HolidaysBetween_SortedAndBounded(t *testing.T) {
	cal := holiday.Japan()

	got, err := cal.HolidaysBetween(day(2025, time.April, 21), day(2025, time.May, 20))
	require.NoError(t, err)

	var dates []string
	for _, h := range got {
		dates = append(dates, h.Date.String())
		assert.Equal(t, generic.SourceNational, h.Source)
		assert.NotEmpty(t, h.Name)
	}
	assert.Equal(t, []string{
		"2025-04-29", "2025-05-03", "2025-05-04", "2025-05-05", "2025-05-06",
	}, dates)
}

func TestJapan_YearCount(t *testing.T) {
	cal := holiday.Japan()

	// 2024 has 21 holidays including substitutes.
	got, err := cal.HolidaysBetween(day(2024, time.January, 1), day(2024, time.December, 31))
	require.NoError(t, err)
	assert.Len(t, got, 21)
}

func TestJapan_OutOfRangeYear(t *testing.T) {
	cal := holiday.Japan()

	_, err := cal.IsHoliday(day(1999, time.December, 31))
	require.Error(t, err)
	assert.True(t, errors.Is(err, generic.ErrCalendarUnsupported))

	var calErr *generic.CalendarError
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, 1999, calErr.Year)

	_, err = cal.HolidaysBetween(day(2099, time.December, 1), day(2100, time.January, 31))
	assert.True(t, errors.Is(err, generic.ErrCalendarUnsupported))
}

func TestWithClosures(t *testing.T) {
	closures := []generic.Holiday{
		{ID: "c1", Date: day(2025, time.December, 29), Name: "Year-end shutdown"},
		{ID: "c2", Date: day(2025, time.November, 3), Name: "Duplicate of Culture Day"},
	}
	cal := holiday.WithClosures(holiday.Japan(), closures)

	ok, err := cal.IsHoliday(day(2025, time.December, 29))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := cal.HolidaysBetween(day(2025, time.November, 1), day(2025, time.December, 31))
	require.NoError(t, err)

	var dates []string
	for _, h := range got {
		dates = append(dates, h.Date.String())
	}
	assert.Equal(t, []string{"2025-11-03", "2025-11-23", "2025-11-24", "2025-12-29"}, dates)
	assert.Equal(t, generic.SourceCompany, got[3].Source)
	assert.Equal(t, generic.SourceNational, got[0].Source)
}
