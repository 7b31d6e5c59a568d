package workhours_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/store/sqlite"
	"github.com/warp/hours-estimator/workhours"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T, now time.Time) (*workhours.Service, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	service := workhours.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.Now = func() time.Time { return now }
	return service, store
}

func marchCycle() generic.Period {
	return generic.Period{Start: day(2024, time.February, 21), End: day(2024, time.March, 20)}
}

// =============================================================================
// RUN
// =============================================================================

func TestServiceRun_MidPeriod(t *testing.T) {
	// GIVEN: Today is Mon 2024-03-11, worked every weekday through Mar 8,
	// and the company is closed on Fri Mar 15
	now := time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC)
	service, store := newTestService(t, now)
	ctx := context.Background()

	_, err := store.SaveClosure(ctx, generic.Holiday{
		ID:   "closure-1",
		Date: day(2024, time.March, 15),
		Name: "Office move",
	})
	require.NoError(t, err)

	period := marchCycle()
	csv, n := buildCSV(period.Start, period.End, day(2024, time.March, 8), "08:00")
	require.Equal(t, 13, n)

	// WHEN: Submitting with half a day off still planned
	report, err := service.Run(ctx, workhours.Submission{
		UserID:            "U123",
		Period:            period,
		NonProjectHours:   hours(0),
		ScheduledHolidays: days(0.5),
		CSV:               []byte(csv),
	})

	// THEN: Mar 11-19 minus the closure is 6 days, minus 0.5
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "U123", report.UserID)
	assert.Equal(t, "2024-03-11", report.AsOf.String())
	assert.Equal(t, 13, report.Aggregation.RealWorkDays)
	assert.Equal(t, "104", report.Aggregation.TotalHours.Value.String())
	assert.Equal(t, "8", report.Aggregation.AverageHoursPerDay.Value.String())
	assert.Equal(t, "5.5", report.RemainingWorkDays.Value.String())
	assert.Equal(t, "148", report.EstimatedHours.Value.String())

	var names []string
	for _, h := range report.Holidays {
		names = append(names, h.Date.String()+" "+string(h.Source))
	}
	assert.Equal(t, []string{"2024-03-15 company", "2024-03-20 national"}, names)
}

func TestServiceRun_IgnoresRowsOutsidePeriod(t *testing.T) {
	now := time.Date(2024, time.March, 25, 10, 0, 0, 0, time.UTC)
	service, _ := newTestService(t, now)

	// The export runs a few days past the period end.
	period := marchCycle()
	csv, _ := buildCSV(period.Start, day(2024, time.March, 25), day(2024, time.March, 25), "08:00")

	report, err := service.Run(context.Background(), workhours.Submission{
		Period: period,
		CSV:    []byte(csv),
	})
	require.NoError(t, err)

	// Feb 21 .. Mar 20 has 21 weekdays; Mar 21, 22 and 25 are not counted.
	assert.Equal(t, 21, report.Aggregation.RealWorkDays)
	assert.Equal(t, "0", report.RemainingWorkDays.Value.String())
	assert.True(t, report.EstimatedHours.Value.Equal(report.Aggregation.TotalHours.Value))
}

func TestServiceRun_WithoutNationalCalendar(t *testing.T) {
	service := workhours.NewService(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.Holidays = nil
	service.Now = func() time.Time { return time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC) }

	period := marchCycle()
	csv, _ := buildCSV(period.Start, period.End, day(2024, time.March, 8), "08:00")

	report, err := service.Run(context.Background(), workhours.Submission{
		Period: period,
		CSV:    []byte(csv),
	})
	require.NoError(t, err)

	// Mar 11-20 has 8 weekdays; Mar 20 is not excluded without the national calendar.
	assert.Equal(t, "8", report.RemainingWorkDays.Value.String())
	assert.Empty(t, report.Holidays)
}

func TestServiceRun_ClientErrors(t *testing.T) {
	now := time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC)
	service, _ := newTestService(t, now)
	period := marchCycle()

	t.Run("coverage", func(t *testing.T) {
		csv, _ := buildCSV(day(2024, time.March, 1), period.End, period.End, "08:00")
		_, err := service.Run(context.Background(), workhours.Submission{Period: period, CSV: []byte(csv)})
		requireFieldError(t, err, workhours.FieldCSV, generic.ErrRangeCoverage)
		assert.True(t, generic.IsClientError(err))
	})

	t.Run("format", func(t *testing.T) {
		_, err := service.Run(context.Background(), workhours.Submission{Period: period, CSV: []byte("a,b,c\n")})
		requireFieldError(t, err, workhours.FieldCSV, generic.ErrFormat)
	})

	t.Run("no work days", func(t *testing.T) {
		csv, _ := buildCSV(period.Start, period.End, day(2024, time.February, 1), "08:00")
		_, err := service.Run(context.Background(), workhours.Submission{Period: period, CSV: []byte(csv)})
		requireFieldError(t, err, workhours.FieldCSV, generic.ErrEmptyDataset)
	})
}

func TestServiceRun_UnsupportedCalendarYearIsInternal(t *testing.T) {
	now := time.Date(2100, time.January, 5, 10, 0, 0, 0, time.UTC)
	service, _ := newTestService(t, now)

	period := generic.Period{Start: day(2099, time.December, 21), End: day(2100, time.January, 20)}
	csv, _ := buildCSV(period.Start, period.End, day(2100, time.January, 4), "08:00")

	_, err := service.Run(context.Background(), workhours.Submission{Period: period, CSV: []byte(csv)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generic.ErrCalendarUnsupported))
	assert.False(t, generic.IsClientError(err))
}

func TestService_DefaultPeriodUsesClock(t *testing.T) {
	service, _ := newTestService(t, time.Date(2025, time.January, 3, 12, 0, 0, 0, time.UTC))
	p := service.DefaultPeriod()
	assert.Equal(t, "2024-12-21", p.Start.String())
	assert.Equal(t, "2025-01-20", p.End.String())
}
