package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendbook-dev/lendbook/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func loan(id, person, amount, rate string, start, end time.Time) model.Loan {
	l := model.Loan{
		ID:        id,
		Person:    person,
		Amount:    dec(amount),
		Rate:      dec(rate),
		StartDate: start,
		EndDate:   end,
	}
	l.Recompute()
	return l
}

func testLoans() []model.Loan {
	return []model.Loan{
		loan("c", "Carol", "2000", "1", date(2024, 3, 5), date(2024, 3, 15)),
		loan("a", "Alice", "10000", "1.5", date(2024, 1, 1), date(2024, 1, 31)),
		loan("b", "Bob", "5000", "2", date(2024, 1, 20), date(2024, 1, 30)),
	}
}

func TestBuildCombined(t *testing.T) {
	c := BuildCombined(testLoans())

	assert.Len(t, c.Loans, 3)
	assert.Equal(t, 3, c.Summary.Loans)
	assert.Len(t, c.People, 3)

	// Months are chronological even though March appears first in the input.
	require.Len(t, c.Months, 2)
	assert.Equal(t, "Jan 2024", c.Months[0].Label)
	assert.Equal(t, "Mar 2024", c.Months[1].Label)
}

func TestBuildCombinedEmpty(t *testing.T) {
	c := BuildCombined(nil)

	assert.Empty(t, c.Loans)
	assert.Empty(t, c.Months)
	assert.False(t, c.Summary.AverageRate.Valid)
}

func TestBuildPerson(t *testing.T) {
	p := BuildPerson(testLoans(), "Alice")

	assert.Equal(t, "Alice", p.Person)
	require.Len(t, p.Loans, 1)
	assert.Equal(t, 1, p.Summary.Loans)
	assert.True(t, p.Summary.Receivable.Equal(dec("10150.00")), "receivable: %s", p.Summary.Receivable)

	unknown := BuildPerson(testLoans(), "Mallory")
	assert.Empty(t, unknown.Loans)
	assert.Equal(t, 0, unknown.Summary.Loans)
}

func TestMonthRowJSON(t *testing.T) {
	c := BuildCombined(testLoans())

	data, err := json.Marshal(c.Months[0])
	require.NoError(t, err)

	var row map[string]any
	require.NoError(t, json.Unmarshal(data, &row))
	assert.Equal(t, float64(2024), row["year"])
	assert.Equal(t, float64(1), row["month"])
	assert.Equal(t, "Jan 2024", row["label"])
	assert.Equal(t, float64(15000), row["principal"])
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	RenderText(&buf, BuildCombined(testLoans()))

	out := buf.String()
	assert.Contains(t, out, "Combined Loan Report")
	assert.Contains(t, out, "Total loans:      3")
	assert.Contains(t, out, "Amount lent:      17000.00")
	assert.Contains(t, out, "Breakdown by person:")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Monthly distribution:")
	assert.Contains(t, out, "Jan 2024")
}

func TestRenderTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderText(&buf, BuildCombined(nil))

	out := buf.String()
	assert.Contains(t, out, "Total loans:      0")
	assert.Contains(t, out, "Average rate:     n/a")
	assert.NotContains(t, out, "Breakdown by person:")
	assert.NotContains(t, out, "Monthly distribution:")
}

func TestRenderPersonText(t *testing.T) {
	var buf bytes.Buffer
	RenderPersonText(&buf, BuildPerson(testLoans(), "Bob"))

	out := buf.String()
	assert.Contains(t, out, "Loan Report for Bob")
	assert.Contains(t, out, "Total loans:      1")
	assert.Contains(t, out, "2024-01-20")
	assert.Contains(t, out, "5033.33")
}
