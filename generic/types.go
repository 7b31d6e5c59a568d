/*
Package generic provides the domain-agnostic building blocks of the estimator.

PURPOSE:
  Calendar days, reporting periods, holiday calendars and decimal quantities.
  Nothing in here knows about attendance exports; the workhours package
  builds the estimation rules on top of these types.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 7.5 hours, 3 days)
  - Rounding: How derived figures are rounded for reporting

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Explicit rounding: Only reporting figures are rounded, never inputs
  3. Explicit time: "now" is always a parameter, never read from a global

USAGE:
  total := generic.NewAmount(152.5, generic.UnitHours)
  avg := total.Div(decimal.NewFromInt(19)).Round(generic.RoundHalfUp, 2)

SEE ALSO:
  - time.go: TimePoint and holiday calendars
  - period.go: Reporting period calculation
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays  Unit = "days"
	UnitHours Unit = "hours"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

// HoursFromDuration converts a duration to an exact decimal hour amount.
func HoursFromDuration(d time.Duration) Amount {
	seconds := decimal.NewFromInt(int64(d / time.Second))
	return Amount{Value: seconds.Div(decimal.NewFromInt(3600)), Unit: UnitHours}
}

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }

// Float64 returns the value as a float for JSON output.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

// Round rounds the amount to places decimals with the given mode.
func (a Amount) Round(mode Rounding, places int32) Amount {
	return Amount{Value: mode.Apply(a.Value, places), Unit: a.Unit}
}

func (a Amount) String() string {
	return a.Value.String() + " " + string(a.Unit)
}

// =============================================================================
// ROUNDING
// =============================================================================

// Rounding selects how reporting figures are rounded.
type Rounding string

const (
	// RoundHalfUp rounds half away from zero: 2.345 -> 2.35, -2.345 -> -2.35.
	RoundHalfUp Rounding = "half_up"

	// RoundHalfEven is banker's rounding: 2.345 -> 2.34, 2.355 -> 2.36.
	RoundHalfEven Rounding = "half_even"
)

// Apply rounds d to places decimals. Unknown modes fall back to half up.
func (r Rounding) Apply(d decimal.Decimal, places int32) decimal.Decimal {
	if r == RoundHalfEven {
		return d.RoundBank(places)
	}
	return d.Round(places)
}

// Valid reports whether r is a known rounding mode.
func (r Rounding) Valid() bool {
	return r == RoundHalfUp || r == RoundHalfEven
}
