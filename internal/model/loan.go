package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendbook-dev/lendbook/internal/interest"
)

// Loan is one loan extended to one borrower.
//
// Days, Interest and Total are derived from the four primary fields and only
// change through Recompute/RecomputeAsOf, so they cannot drift apart.
type Loan struct {
	ID        string          `json:"id"`     // opaque UUID, immutable after creation
	Person    string          `json:"person"` // borrower display name, exact-match grouping key
	Amount    decimal.Decimal `json:"amount"`
	Rate      decimal.Decimal `json:"rate"` // monthly percentage, 1.5 = 1.5%/month
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`

	Days     int             `json:"days"`
	Interest decimal.Decimal `json:"interest"`
	Total    decimal.Decimal `json:"total"` // Amount + Interest
}

// Recompute rederives Days, Interest and Total over the stored window.
func (l *Loan) Recompute() {
	l.RecomputeAsOf(l.EndDate)
}

// RecomputeAsOf rederives Days, Interest and Total against a shared reference
// date, leaving the stored EndDate untouched. Used to bring the whole ledger
// up to date before a combined report.
func (l *Loan) RecomputeAsOf(asOf time.Time) {
	l.Interest, l.Days = interest.Compute(l.Amount, l.Rate, l.StartDate, asOf)
	l.Total = l.Amount.Add(l.Interest)
}
