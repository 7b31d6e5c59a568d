package workhours

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/hours-estimator/generic"
)

// Aggregate sums the work duration of records with a clock-in, subtracts
// non-project hours and derives the per-day average, using DefaultSettings.
func Aggregate(records Records, nonProjectHours generic.Amount) (AggregationResult, error) {
	return DefaultSettings().Aggregate(records, nonProjectHours)
}

// Aggregate sums the work duration of records with a clock-in, subtracts
// non-project hours and derives the per-day average.
//
// Total and average are rounded independently from the unrounded net hours.
// Returns a FieldError wrapping generic.ErrEmptyDataset when no record has
// a clock-in.
func (s Settings) Aggregate(records Records, nonProjectHours generic.Amount) (AggregationResult, error) {
	if nonProjectHours.IsNegative() {
		return AggregationResult{}, &generic.FieldError{
			Field:   FieldNonProjectHours,
			Message: "Non-project hours must be zero or more.",
			Err:     generic.ErrInvalidInput,
		}
	}

	worked := records.Worked()
	if len(worked) == 0 {
		return AggregationResult{}, &generic.FieldError{
			Field:   FieldCSV,
			Message: "There are no work days in the reporting period.",
			Err:     generic.ErrEmptyDataset,
		}
	}

	var elapsed time.Duration
	for _, r := range worked {
		elapsed += r.WorkDuration
	}

	net := generic.HoursFromDuration(elapsed).Sub(nonProjectHours)
	days := decimal.NewFromInt(int64(len(worked)))

	return AggregationResult{
		TotalHours:         s.round(net),
		AverageHoursPerDay: s.round(net.Div(days)),
		RealWorkDays:       len(worked),
	}, nil
}
