package workhours

import (
	"github.com/warp/hours-estimator/generic"
)

// Estimate projects the period total with DefaultSettings.
func Estimate(total, average, remainingWorkDays generic.Amount) generic.Amount {
	return DefaultSettings().Estimate(total, average, remainingWorkDays)
}

// Estimate projects the period total: total + average * remaining, rounded.
// A negative remaining day count lowers the estimate below total.
func (s Settings) Estimate(total, average, remainingWorkDays generic.Amount) generic.Amount {
	projected := total.Add(average.Mul(remainingWorkDays.Value))
	return s.round(generic.Amount{Value: projected.Value, Unit: generic.UnitHours})
}
