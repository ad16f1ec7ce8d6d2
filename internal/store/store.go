// Package store persists the loan ledger. Every implementation round-trips
// all Loan fields losslessly: ids stay stable and dates keep calendar-date
// semantics across a save/load cycle.
package store

import "github.com/lendbook-dev/lendbook/internal/model"

// Store loads and saves the full loan collection. Save replaces whatever was
// persisted before, including replacing it with an empty collection.
type Store interface {
	Load() ([]model.Loan, error)
	Save(loans []model.Loan) error
}
