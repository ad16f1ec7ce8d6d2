package interest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestComputeThirtyDayMonth(t *testing.T) {
	// 10000 at 1.5%/month over exactly one 30-day proration window.
	interest, days := Compute(dec("10000"), dec("1.5"), date(2024, 1, 1), date(2024, 1, 31))
	assert.Equal(t, 30, days)
	assert.True(t, interest.Equal(dec("150.00")), "got %s", interest)
}

func TestComputeZeroWindow(t *testing.T) {
	interest, days := Compute(dec("10000"), dec("1.5"), date(2024, 3, 15), date(2024, 3, 15))
	assert.Equal(t, 0, days)
	assert.True(t, interest.IsZero(), "got %s", interest)
}

func TestComputeZeroAmountAndRate(t *testing.T) {
	interest, days := Compute(decimal.Zero, dec("1.5"), date(2024, 1, 1), date(2024, 2, 1))
	assert.Equal(t, 31, days)
	assert.True(t, interest.IsZero())

	interest, _ = Compute(dec("10000"), decimal.Zero, date(2024, 1, 1), date(2024, 2, 1))
	assert.True(t, interest.IsZero())
}

func TestComputeInvertedWindow(t *testing.T) {
	// End before start: negative days, negative interest, no error.
	interest, days := Compute(dec("1000"), dec("3"), date(2024, 1, 11), date(2024, 1, 1))
	assert.Equal(t, -10, days)
	assert.True(t, interest.Equal(dec("-10.00")), "got %s", interest)
}

func TestComputeLinearInAmount(t *testing.T) {
	start, end := date(2024, 5, 1), date(2024, 5, 18)

	single, _ := Compute(dec("1234.56"), dec("2.5"), start, end)
	double, _ := Compute(dec("2469.12"), dec("2.5"), start, end)
	assert.True(t, double.Equal(single.Mul(decimal.NewFromInt(2))),
		"doubling the amount should double the interest: %s vs %s", single, double)
}

func TestComputeMonotonicInWindow(t *testing.T) {
	start := date(2024, 1, 1)
	prev := decimal.NewFromInt(-1)
	for d := 0; d <= 90; d++ {
		interest, days := Compute(dec("5000"), dec("2"), start, start.AddDate(0, 0, d))
		assert.Equal(t, d, days)
		assert.True(t, interest.GreaterThanOrEqual(prev),
			"interest should not decrease as the window grows: day %d, %s < %s", d, interest, prev)
		prev = interest
	}
}

func TestComputeBankersRounding(t *testing.T) {
	// 9 * 1.5% * 10/30 = 0.045 rounds half to even, down to 0.04.
	interest, _ := Compute(dec("9"), dec("1.5"), date(2024, 1, 1), date(2024, 1, 11))
	assert.True(t, interest.Equal(dec("0.04")), "got %s", interest)

	// 11 * 1.5% * 10/30 = 0.055 rounds half to even, up to 0.06.
	interest, _ = Compute(dec("11"), dec("1.5"), date(2024, 1, 1), date(2024, 1, 11))
	assert.True(t, interest.Equal(dec("0.06")), "got %s", interest)
}

func TestDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, Days(start, end))
}

func TestMidnight(t *testing.T) {
	got := Midnight(time.Date(2024, 6, 7, 13, 45, 12, 99, time.FixedZone("X", 3600)))
	assert.Equal(t, date(2024, 6, 7), got)
}
