// Package interest implements the simple-interest accrual applied to every
// loan: a monthly percentage rate prorated over elapsed whole days using a
// fixed 30-day month.
package interest

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	daysPerMonth = decimal.NewFromInt(30)
)

// Midnight normalizes t to midnight UTC, discarding any time-of-day component.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days returns the whole days elapsed from start to end, negative when end
// precedes start. Time-of-day components are ignored.
func Days(start, end time.Time) int {
	return int(Midnight(end).Sub(Midnight(start)).Hours() / 24)
}

// Compute returns the interest accrued on amount at a monthly percentage rate
// (1.5 means 1.5%/month) over the start..end window, plus the elapsed days.
//
// The monthly rate is prorated by days/30, a fixed 30-day-month convention
// rather than an actual/360 or actual/365 day count. Interest carries banker's
// rounding to 2 decimal places. Zero amount or rate yields zero interest; an
// inverted window yields negative days and negative interest. Never errors.
func Compute(amount, rate decimal.Decimal, start, end time.Time) (decimal.Decimal, int) {
	days := Days(start, end)
	interest := amount.Mul(rate).Div(hundred).
		Mul(decimal.NewFromInt(int64(days))).Div(daysPerMonth).
		RoundBank(2)
	return interest, days
}
