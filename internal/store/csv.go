package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendbook-dev/lendbook/internal/model"
)

// Header is the CSV header for the ledger file.
const Header = "id,person,amount,rate,start_date,end_date,days,interest,total"

const (
	numFields   = 9
	dateFormat  = "2006-01-02"
	colID       = 0
	colPerson   = 1
	colAmount   = 2
	colRate     = 3
	colStart    = 4
	colEnd      = 5
	colDays     = 6
	colInterest = 7
	colTotal    = 8
)

// ReadLoans reads all loans from a ledger CSV reader.
func ReadLoans(r io.Reader) ([]model.Loan, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var loans []model.Loan
	for i, rec := range records[1:] {
		loan, err := UnmarshalLoan(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

// WriteLoans writes loans to a ledger CSV writer (including header).
func WriteLoans(w io.Writer, loans []model.Loan) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, loan := range loans {
		if err := cw.Write(MarshalLoan(loan)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLoan converts a Loan to a CSV row ([]string).
func MarshalLoan(loan model.Loan) []string {
	row := make([]string, numFields)
	row[colID] = loan.ID
	row[colPerson] = loan.Person
	row[colAmount] = loan.Amount.StringFixed(2)
	row[colRate] = loan.Rate.String()
	row[colStart] = loan.StartDate.Format(dateFormat)
	row[colEnd] = loan.EndDate.Format(dateFormat)
	row[colDays] = strconv.Itoa(loan.Days)
	row[colInterest] = loan.Interest.StringFixed(2)
	row[colTotal] = loan.Total.StringFixed(2)
	return row
}

// UnmarshalLoan converts a CSV row to a Loan.
func UnmarshalLoan(record []string) (model.Loan, error) {
	if len(record) != numFields {
		return model.Loan{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Loan{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	rate, err := decimal.NewFromString(record[colRate])
	if err != nil {
		return model.Loan{}, fmt.Errorf("parsing rate %q: %w", record[colRate], err)
	}

	start, err := time.Parse(dateFormat, record[colStart])
	if err != nil {
		return model.Loan{}, fmt.Errorf("parsing start_date %q: %w", record[colStart], err)
	}

	end, err := time.Parse(dateFormat, record[colEnd])
	if err != nil {
		return model.Loan{}, fmt.Errorf("parsing end_date %q: %w", record[colEnd], err)
	}

	days, err := strconv.Atoi(record[colDays])
	if err != nil {
		return model.Loan{}, fmt.Errorf("parsing days %q: %w", record[colDays], err)
	}

	interest, err := decimal.NewFromString(record[colInterest])
	if err != nil {
		return model.Loan{}, fmt.Errorf("parsing interest %q: %w", record[colInterest], err)
	}

	total, err := decimal.NewFromString(record[colTotal])
	if err != nil {
		return model.Loan{}, fmt.Errorf("parsing total %q: %w", record[colTotal], err)
	}

	return model.Loan{
		ID:        record[colID],
		Person:    record[colPerson],
		Amount:    amount,
		Rate:      rate,
		StartDate: start,
		EndDate:   end,
		Days:      days,
		Interest:  interest,
		Total:     total,
	}, nil
}

// CSVStore persists the ledger as a single flat CSV file.
type CSVStore struct {
	path string
}

// NewCSVStore creates a CSVStore backed by the file at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the ledger file. A missing file is an empty ledger, not an error.
func (s *CSVStore) Load() ([]model.Loan, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	loans, err := ReadLoans(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	return loans, nil
}

// Save rewrites the ledger file. An empty collection leaves a header-only
// file behind rather than a stale one.
func (s *CSVStore) Save(loans []model.Loan) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating ledger dir: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating ledger %s: %w", s.path, err)
	}
	defer f.Close()

	if err := WriteLoans(f, loans); err != nil {
		return fmt.Errorf("writing ledger %s: %w", s.path, err)
	}
	return nil
}
