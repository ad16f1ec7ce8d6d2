// Package report renders ledger summaries for people to read: plain text for
// the terminal, CSV and XLSX for download. Aggregation itself lives in the
// ledger package; this layer only arranges and formats it, which is also
// where display ordering (chronological months) is decided.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/lendbook-dev/lendbook/internal/ledger"
	"github.com/lendbook-dev/lendbook/internal/model"
)

// Combined is the full-ledger report: the loans plus global, per-person and
// monthly summaries.
type Combined struct {
	Loans   []model.Loan           `json:"loans"`
	Summary ledger.Summary         `json:"summary"`
	People  []ledger.PersonSummary `json:"people"`
	Months  []MonthRow             `json:"months"`
}

// MonthRow is one row of the monthly distribution, in chronological order.
type MonthRow struct {
	Month  ledger.Month `json:"month"`
	Label  string       `json:"label"`
	Bucket ledger.Bucket
}

// MarshalJSON flattens the row for API consumers.
func (r MonthRow) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"year":%d,"month":%d,"label":%q,"principal":%s,"interest":%s}`,
		r.Month.Year, int(r.Month.Month), r.Label,
		r.Bucket.Principal.String(), r.Bucket.Interest.String())), nil
}

// BuildCombined assembles the combined report from an already-refreshed
// collection. Months come out sorted chronologically.
func BuildCombined(loans []model.Loan) Combined {
	buckets := ledger.BucketByMonth(loans)

	months := make([]MonthRow, 0, len(buckets))
	for m, b := range buckets {
		months = append(months, MonthRow{Month: m, Label: m.Label(), Bucket: b})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})

	return Combined{
		Loans:   loans,
		Summary: ledger.Summarize(loans),
		People:  ledger.SummarizeByPerson(loans),
		Months:  months,
	}
}

// Person is the individual report for one borrower, computed from stored
// values without refreshing.
type Person struct {
	Person  string         `json:"person"`
	Loans   []model.Loan   `json:"loans"`
	Summary ledger.Summary `json:"summary"`
}

// BuildPerson assembles the report for one borrower. Loans is empty when the
// ledger has no loans for that name.
func BuildPerson(loans []model.Loan, person string) Person {
	own := ledger.FilterPerson(loans, person)
	return Person{
		Person:  person,
		Loans:   own,
		Summary: ledger.Summarize(own),
	}
}

// RenderText writes the combined report in terminal form.
func RenderText(w io.Writer, c Combined) {
	fmt.Fprintf(w, "Combined Loan Report\n\n")
	renderSummary(w, c.Summary)

	if len(c.People) > 0 {
		fmt.Fprintf(w, "\nBreakdown by person:\n")
		fmt.Fprintf(w, "  %-20s %14s %14s %14s %10s\n", "PERSON", "AMOUNT", "INTEREST", "TOTAL", "SHARE")
		for _, p := range c.People {
			share := "n/a"
			if p.Share.Valid {
				share = p.Share.Decimal.StringFixed(2) + "%"
			}
			fmt.Fprintf(w, "  %-20s %14s %14s %14s %10s\n",
				p.Person, p.Principal.StringFixed(2), p.Interest.StringFixed(2),
				p.Receivable.StringFixed(2), share)
		}
	}

	if len(c.Months) > 0 {
		fmt.Fprintf(w, "\nMonthly distribution:\n")
		fmt.Fprintf(w, "  %-10s %14s %14s\n", "MONTH", "AMOUNT", "INTEREST")
		for _, m := range c.Months {
			fmt.Fprintf(w, "  %-10s %14s %14s\n",
				m.Label, m.Bucket.Principal.StringFixed(2), m.Bucket.Interest.StringFixed(2))
		}
	}
}

// RenderPersonText writes an individual report in terminal form.
func RenderPersonText(w io.Writer, p Person) {
	fmt.Fprintf(w, "Loan Report for %s\n\n", p.Person)
	renderSummary(w, p.Summary)

	if len(p.Loans) > 0 {
		fmt.Fprintf(w, "\nLoans:\n")
		fmt.Fprintf(w, "  %-12s %-12s %6s %14s %14s %8s\n", "START", "END", "RATE", "AMOUNT", "TOTAL", "DAYS")
		for _, l := range p.Loans {
			fmt.Fprintf(w, "  %-12s %-12s %5s%% %14s %14s %8d\n",
				l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02"),
				l.Rate, l.Amount.StringFixed(2), l.Total.StringFixed(2), l.Days)
		}
	}
}

func renderSummary(w io.Writer, s ledger.Summary) {
	fmt.Fprintf(w, "Total loans:      %d\n", s.Loans)
	fmt.Fprintf(w, "Amount lent:      %s\n", s.Principal.StringFixed(2))
	fmt.Fprintf(w, "Interest:         %s\n", s.Interest.StringFixed(2))
	fmt.Fprintf(w, "Total receivable: %s\n", s.Receivable.StringFixed(2))
	if s.AverageRate.Valid {
		fmt.Fprintf(w, "Average rate:     %s%%/month\n", s.AverageRate.Decimal.StringFixed(2))
	} else {
		fmt.Fprintf(w, "Average rate:     n/a\n")
	}
}
