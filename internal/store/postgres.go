package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendbook-dev/lendbook/internal/interest"
	"github.com/lendbook-dev/lendbook/internal/model"
)

// Schema creates the loans table. The position column preserves insertion
// order across save/load cycles.
const Schema = `
CREATE TABLE IF NOT EXISTS loans (
	position   INTEGER NOT NULL,
	id         TEXT PRIMARY KEY,
	person     TEXT NOT NULL,
	amount     NUMERIC(18,2) NOT NULL,
	rate       NUMERIC(9,4) NOT NULL,
	start_date DATE NOT NULL,
	end_date   DATE NOT NULL,
	days       INTEGER NOT NULL,
	interest   NUMERIC(18,2) NOT NULL,
	total      NUMERIC(18,2) NOT NULL
)`

// PostgresStore persists the ledger in a PostgreSQL table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgresStore over an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the loans table if it does not exist.
func (s *PostgresStore) EnsureSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("creating loans table: %w", err)
	}
	return nil
}

// Load reads the full collection in insertion order.
func (s *PostgresStore) Load() ([]model.Loan, error) {
	rows, err := s.db.Query(`
		SELECT id, person, amount, rate, start_date, end_date, days, interest, total
		FROM loans
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		var l model.Loan
		var amount, rate, accrued, total string
		var start, end time.Time

		if err := rows.Scan(&l.ID, &l.Person, &amount, &rate, &start, &end, &l.Days, &accrued, &total); err != nil {
			return nil, fmt.Errorf("scanning loan: %w", err)
		}

		if l.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		if l.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("parsing rate %q: %w", rate, err)
		}
		if l.Interest, err = decimal.NewFromString(accrued); err != nil {
			return nil, fmt.Errorf("parsing interest %q: %w", accrued, err)
		}
		if l.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parsing total %q: %w", total, err)
		}

		// DATE columns come back as midnight in some location; pin to UTC
		// so calendar-date semantics survive the round trip.
		l.StartDate = interest.Midnight(start)
		l.EndDate = interest.Midnight(end)

		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating loans: %w", err)
	}
	return loans, nil
}

// Save replaces the full table contents in one transaction.
func (s *PostgresStore) Save(loans []model.Loan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM loans`); err != nil {
		return fmt.Errorf("clearing loans: %w", err)
	}

	for i, l := range loans {
		_, err := tx.Exec(`
			INSERT INTO loans (position, id, person, amount, rate, start_date, end_date, days, interest, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			i, l.ID, l.Person,
			l.Amount.StringFixed(2), l.Rate.String(),
			l.StartDate, l.EndDate,
			l.Days, l.Interest.StringFixed(2), l.Total.StringFixed(2))
		if err != nil {
			return fmt.Errorf("inserting loan %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}
