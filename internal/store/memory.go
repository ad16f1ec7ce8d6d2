package store

import (
	"sync"

	"github.com/lendbook-dev/lendbook/internal/model"
)

// MemoryStore keeps the ledger in process memory. Used by tests and as the
// serve-mode fallback when no persistent store is configured.
type MemoryStore struct {
	mu    sync.Mutex
	loans []model.Loan
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored collection.
func (s *MemoryStore) Load() ([]model.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Loan, len(s.loans))
	copy(out, s.loans)
	return out, nil
}

// Save replaces the stored collection with a copy of loans.
func (s *MemoryStore) Save(loans []model.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loans = make([]model.Loan, len(loans))
	copy(s.loans, loans)
	return nil
}
