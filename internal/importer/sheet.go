package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendbook-dev/lendbook/internal/interest"
	"github.com/lendbook-dev/lendbook/internal/ledger"
)

// SheetParser parses the plain loan-sheet format:
// person,amount,rate,start_date[,end_date] with a header row and
// YYYY-MM-DD dates. A missing or empty end_date means an ongoing loan and
// defaults to Today.
type SheetParser struct {
	// Today overrides the ongoing-loan end date. Zero means time.Now.
	Today time.Time
}

const (
	sheetDateFormat = "2006-01-02"
	sheetColPerson  = 0
	sheetColAmount  = 1
	sheetColRate    = 2
	sheetColStart   = 3
	sheetColEnd     = 4
)

// Format returns the parser name.
func (p *SheetParser) Format() string { return "sheet" }

// Parse reads a loan sheet and returns loan parameters in row order.
func (p *SheetParser) Parse(r io.Reader) ([]ledger.Params, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // 4 or 5 columns per row

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading loan sheet CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	today := p.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = interest.Midnight(today)

	var params []ledger.Params
	for i, rec := range records[1:] {
		row, err := parseSheetRow(rec, today)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		params = append(params, row)
	}
	return params, nil
}

func parseSheetRow(rec []string, today time.Time) (ledger.Params, error) {
	if len(rec) != 4 && len(rec) != 5 {
		return ledger.Params{}, fmt.Errorf("expected 4 or 5 fields, got %d", len(rec))
	}

	amount, err := decimal.NewFromString(rec[sheetColAmount])
	if err != nil {
		return ledger.Params{}, fmt.Errorf("parsing amount %q: %w", rec[sheetColAmount], err)
	}

	rate, err := decimal.NewFromString(rec[sheetColRate])
	if err != nil {
		return ledger.Params{}, fmt.Errorf("parsing rate %q: %w", rec[sheetColRate], err)
	}

	start, err := time.Parse(sheetDateFormat, rec[sheetColStart])
	if err != nil {
		return ledger.Params{}, fmt.Errorf("parsing start_date %q: %w", rec[sheetColStart], err)
	}

	end := today
	if len(rec) == 5 && rec[sheetColEnd] != "" {
		end, err = time.Parse(sheetDateFormat, rec[sheetColEnd])
		if err != nil {
			return ledger.Params{}, fmt.Errorf("parsing end_date %q: %w", rec[sheetColEnd], err)
		}
	}

	return ledger.Params{
		Person:    rec[sheetColPerson],
		Amount:    amount,
		Rate:      rate,
		StartDate: start,
		EndDate:   end,
	}, nil
}
