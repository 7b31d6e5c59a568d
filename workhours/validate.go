package workhours

import (
	"fmt"

	"github.com/warp/hours-estimator/generic"
)

// Validate checks that records cover the whole reporting period: the
// earliest record must be on or before period.Start and the latest on or
// after period.End. Aggregation must not run on an invalid outcome.
func Validate(records Records, period generic.Period) ValidationOutcome {
	if err := period.Validate(); err != nil {
		return invalid(FieldEndDate, "The end date must not be before the start date.", generic.ErrInvalidPeriod)
	}

	span, ok := records.Span()
	if !ok {
		return invalid(FieldCSV, "The CSV file contains no attendance rows.", generic.ErrEmptyDataset)
	}

	if period.Start.Before(span.Start) || span.End.Before(period.End) {
		msg := fmt.Sprintf(
			"The CSV file does not cover the reporting period (file: %s to %s, period: %s to %s).\nCheck the export settings of the attendance system.",
			span.Start, span.End, period.Start, period.End,
		)
		return invalid(FieldCSV, msg, generic.ErrRangeCoverage)
	}

	return ValidationOutcome{Valid: true, Errors: map[string]string{}}
}
