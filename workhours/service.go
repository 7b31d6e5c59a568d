package workhours

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/warp/hours-estimator/generic"
	"github.com/warp/hours-estimator/holiday"
)

// Submission is one validated estimate request.
type Submission struct {
	UserID            string
	Period            generic.Period
	NonProjectHours   generic.Amount
	ScheduledHolidays generic.Amount
	CSV               []byte
}

// Report is everything computed for one submission.
//
// Aggregation only covers records dated inside Period. Rows of the export
// that fall before or after it are dropped once coverage has been checked.
type Report struct {
	ID                string
	UserID            string
	Period            generic.Period
	AsOf              generic.TimePoint
	Aggregation       AggregationResult
	RemainingWorkDays generic.Amount
	EstimatedHours    generic.Amount
	NonProjectHours   generic.Amount
	ScheduledHolidays generic.Amount

	// Holidays excluded from the remaining work days.
	Holidays []generic.Holiday
}

// Service runs the estimation pipeline. It holds no per-request state and
// is safe for concurrent use as long as Closures is.
type Service struct {
	Settings Settings

	// Holidays is the national calendar.
	Holidays generic.HolidayCalendar

	// Closures adds company closure days on top of Holidays. Optional.
	Closures generic.ClosureStore

	// Now is read once per Run. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// NewService wires a service with the Japanese calendar and default settings.
func NewService(closures generic.ClosureStore, logger *slog.Logger) *Service {
	return &Service{
		Settings: DefaultSettings(),
		Holidays: holiday.Japan(),
		Closures: closures,
		Now:      time.Now,
		Logger:   logger,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// DefaultPeriod returns the cycle containing the current day.
func (s *Service) DefaultPeriod() generic.Period {
	return s.Settings.ResolvePeriod(s.now())
}

// Calendar returns the national calendar merged with closures in [from, to].
// Without a national calendar only weekends and closures are days off.
func (s *Service) Calendar(ctx context.Context, from, to generic.TimePoint) (generic.HolidayCalendar, error) {
	var national generic.HolidayCalendar = generic.NoHolidays{}
	if s.Holidays != nil {
		national = s.Holidays
	}
	if s.Closures == nil {
		return national, nil
	}
	closures, err := s.Closures.ClosuresBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load closures: %w", err)
	}
	return holiday.WithClosures(national, closures), nil
}

// Run parses, validates, aggregates and estimates one submission.
// Records outside sub.Period are ignored when aggregating.
//
// User-correctable problems come back as *generic.FieldError (see
// generic.IsClientError); anything else is an internal error.
func (s *Service) Run(ctx context.Context, sub Submission) (*Report, error) {
	log := s.logger().With("user_id", sub.UserID, "period", sub.Period.String())
	today := generic.DayOf(s.now())

	records, err := ParseCSV(bytes.NewReader(sub.CSV))
	if err != nil {
		log.Info("attendance csv rejected", "error", err)
		return nil, err
	}

	outcome := Validate(records, sub.Period)
	if !outcome.Valid {
		log.Info("attendance csv does not cover period", "errors", outcome.Errors)
		return nil, outcome.Err()
	}

	agg, err := s.Settings.Aggregate(records.Within(sub.Period), sub.NonProjectHours)
	if err != nil {
		log.Info("aggregation rejected", "error", err)
		return nil, err
	}

	base := generic.MinTimePoint(today, sub.Period.End)
	calendar, err := s.Calendar(ctx, base, sub.Period.End)
	if err != nil {
		return nil, err
	}
	remaining, err := RemainingWorkDays(sub.ScheduledHolidays, today, sub.Period.End, calendar)
	if err != nil {
		return nil, fmt.Errorf("count remaining work days: %w", err)
	}
	holidays, err := calendar.HolidaysBetween(base, sub.Period.End)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}

	report := &Report{
		ID:                uuid.NewString(),
		UserID:            sub.UserID,
		Period:            sub.Period,
		AsOf:              today,
		Aggregation:       agg,
		RemainingWorkDays: remaining,
		EstimatedHours:    s.Settings.Estimate(agg.TotalHours, agg.AverageHoursPerDay, remaining),
		NonProjectHours:   sub.NonProjectHours,
		ScheduledHolidays: sub.ScheduledHolidays,
		Holidays:          holidays,
	}

	log.Info("estimate computed",
		"report_id", report.ID,
		"total_hours", report.Aggregation.TotalHours.Value.String(),
		"average_hours", report.Aggregation.AverageHoursPerDay.Value.String(),
		"real_work_days", report.Aggregation.RealWorkDays,
		"remaining_work_days", report.RemainingWorkDays.Value.String(),
		"estimated_hours", report.EstimatedHours.Value.String(),
	)
	return report, nil
}
