// Package ledger rolls individual loans into global, per-person and monthly
// summaries, and manages the caller-owned collection through a Store.
//
// The aggregation functions are pure: they hold no state between calls and
// never perform I/O. Degenerate inputs (empty ledger, zero totals) produce
// invalid NullDecimals rather than zeroes, since "no data" and "0" are
// materially different answers.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendbook-dev/lendbook/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summary aggregates the whole ledger (or one borrower's slice of it).
type Summary struct {
	Loans      int             `json:"loans"`
	Principal  decimal.Decimal `json:"principal"`
	Interest   decimal.Decimal `json:"interest"`
	Receivable decimal.Decimal `json:"receivable"`
	// AverageRate is the simple mean of per-loan rates, each loan weighted
	// equally regardless of principal. Invalid when the ledger is empty.
	AverageRate decimal.NullDecimal `json:"average_rate"`
}

// PersonSummary aggregates one borrower's loans.
type PersonSummary struct {
	Person     string          `json:"person"`
	Principal  decimal.Decimal `json:"principal"`
	Interest   decimal.Decimal `json:"interest"`
	Receivable decimal.Decimal `json:"receivable"`
	// Share is this borrower's percentage of the total receivable, rounded
	// to 2 places. Invalid for every group when the grand total is zero.
	Share decimal.NullDecimal `json:"share"`
}

// Month keys a monthly bucket by the calendar month of a loan's start date.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the bucket key for a date.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Label formats a Month like "Jan 2024".
func (m Month) Label() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// Before reports whether m is chronologically before other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Bucket sums one month's loans.
type Bucket struct {
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
}

// RefreshAll recomputes every loan's derived fields from its own start date
// to the shared asOf date, returning the updated collection. Stored end dates
// stay in place but are ignored for this recomputation, so a combined report
// always reflects a single reference date. The caller persists the result.
func RefreshAll(loans []model.Loan, asOf time.Time) []model.Loan {
	out := make([]model.Loan, len(loans))
	for i, l := range loans {
		l.RecomputeAsOf(asOf)
		out[i] = l
	}
	return out
}

// Summarize totals the collection. An empty input yields zero sums, count 0
// and an invalid AverageRate.
func Summarize(loans []model.Loan) Summary {
	s := Summary{Loans: len(loans)}
	if len(loans) == 0 {
		return s
	}

	rateSum := decimal.Zero
	for _, l := range loans {
		s.Principal = s.Principal.Add(l.Amount)
		s.Interest = s.Interest.Add(l.Interest)
		s.Receivable = s.Receivable.Add(l.Total)
		rateSum = rateSum.Add(l.Rate)
	}
	s.AverageRate = decimal.NewNullDecimal(rateSum.Div(decimal.NewFromInt(int64(len(loans)))))
	return s
}

// SummarizeByPerson groups loans by exact borrower name (case-sensitive, no
// trimming) in first-seen order. Consumers wanting a sorted display must sort
// the result themselves.
func SummarizeByPerson(loans []model.Loan) []PersonSummary {
	index := make(map[string]int)
	var groups []PersonSummary
	for _, l := range loans {
		i, ok := index[l.Person]
		if !ok {
			i = len(groups)
			index[l.Person] = i
			groups = append(groups, PersonSummary{Person: l.Person})
		}
		groups[i].Principal = groups[i].Principal.Add(l.Amount)
		groups[i].Interest = groups[i].Interest.Add(l.Interest)
		groups[i].Receivable = groups[i].Receivable.Add(l.Total)
	}

	grand := decimal.Zero
	for _, g := range groups {
		grand = grand.Add(g.Receivable)
	}
	if grand.IsZero() {
		return groups
	}

	for i := range groups {
		share := groups[i].Receivable.Div(grand).Mul(hundred).RoundBank(2)
		groups[i].Share = decimal.NewNullDecimal(share)
	}
	return groups
}

// BucketByMonth sums principal and the currently stored interest by the
// calendar month of each loan's start date. No recomputation happens here;
// refresh first if the buckets must reflect a common reference date. The map
// is unordered.
func BucketByMonth(loans []model.Loan) map[Month]Bucket {
	buckets := make(map[Month]Bucket)
	for _, l := range loans {
		k := MonthOf(l.StartDate)
		b := buckets[k]
		b.Principal = b.Principal.Add(l.Amount)
		b.Interest = b.Interest.Add(l.Interest)
		buckets[k] = b
	}
	return buckets
}

// FilterPerson returns the loans extended to one borrower, preserving order.
func FilterPerson(loans []model.Loan, person string) []model.Loan {
	var out []model.Loan
	for _, l := range loans {
		if l.Person == person {
			out = append(out, l)
		}
	}
	return out
}
