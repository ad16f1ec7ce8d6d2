package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lendbook-dev/lendbook/internal/interest"
	"github.com/lendbook-dev/lendbook/internal/model"
	"github.com/lendbook-dev/lendbook/internal/store"
)

// ErrNotFound is returned when no loan matches the requested id.
var ErrNotFound = errors.New("loan not found")

// ErrInvalid wraps every precondition violation on caller-supplied fields.
var ErrInvalid = errors.New("invalid loan")

// Recorder is notified after every successful mutation. It drives the
// activity log and git auto-commit without the service knowing about either.
type Recorder interface {
	Record(action, loanID, person, details string)
}

// Params holds the caller-supplied primary fields of a loan. Derived fields
// are always recomputed by the service, never accepted from outside.
type Params struct {
	Person    string
	Amount    decimal.Decimal
	Rate      decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

// Service manages the loan collection through a Store. It holds no ledger
// state of its own; every operation is load, transform, save, serialized by
// a single-writer lock.
type Service struct {
	store  store.Store
	logger *logrus.Logger

	// MaxRate, when valid, rejects rates above this bound (the entry form's
	// upper limit). The computation itself accepts any non-negative rate.
	MaxRate decimal.NullDecimal
	// Recorder, when set, is notified after each successful mutation.
	Recorder Recorder

	mu sync.Mutex
}

// NewService creates a ledger Service over a Store.
func NewService(st store.Store, logger *logrus.Logger) *Service {
	return &Service{store: st, logger: logger}
}

func (s *Service) validate(p Params) error {
	if p.Person == "" {
		return fmt.Errorf("%w: person is required", ErrInvalid)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	if p.Rate.IsNegative() {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalid)
	}
	if s.MaxRate.Valid && p.Rate.GreaterThan(s.MaxRate.Decimal) {
		return fmt.Errorf("%w: rate %s exceeds %s%%/month", ErrInvalid, p.Rate, s.MaxRate.Decimal)
	}
	return nil
}

func newLoan(id string, p Params) model.Loan {
	l := model.Loan{
		ID:        id,
		Person:    p.Person,
		Amount:    p.Amount,
		Rate:      p.Rate,
		StartDate: interest.Midnight(p.StartDate),
		EndDate:   interest.Midnight(p.EndDate),
	}
	l.Recompute()
	return l
}

// List returns the current collection.
func (s *Service) List() ([]model.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

// Get returns the loan with the given id.
func (s *Service) Get(id string) (model.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.store.Load()
	if err != nil {
		return model.Loan{}, err
	}
	for _, l := range loans {
		if l.ID == id {
			return l, nil
		}
	}
	return model.Loan{}, ErrNotFound
}

// Add validates params, assigns a fresh id, computes the derived fields and
// appends the loan to the ledger.
func (s *Service) Add(p Params) (model.Loan, error) {
	if err := s.validate(p); err != nil {
		return model.Loan{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.store.Load()
	if err != nil {
		return model.Loan{}, err
	}

	l := newLoan(uuid.NewString(), p)
	loans = append(loans, l)
	if err := s.store.Save(loans); err != nil {
		return model.Loan{}, fmt.Errorf("saving ledger: %w", err)
	}

	s.logger.Infof("added loan %s to %s (%s @ %s%%/month)", l.ID, l.Person, l.Amount.StringFixed(2), l.Rate)
	s.record("add", l.ID, l.Person, fmt.Sprintf("amount %s, rate %s%%/month", l.Amount.StringFixed(2), l.Rate))
	return l, nil
}

// Update replaces the four primary fields of the loan with the given id and
// atomically recomputes the derived fields. The id and the loan's position in
// the collection are preserved.
func (s *Service) Update(id string, p Params) (model.Loan, error) {
	if err := s.validate(p); err != nil {
		return model.Loan{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.store.Load()
	if err != nil {
		return model.Loan{}, err
	}

	for i, l := range loans {
		if l.ID != id {
			continue
		}
		loans[i] = newLoan(id, p)
		if err := s.store.Save(loans); err != nil {
			return model.Loan{}, fmt.Errorf("saving ledger: %w", err)
		}
		s.logger.Infof("updated loan %s for %s", id, loans[i].Person)
		s.record("edit", id, loans[i].Person, fmt.Sprintf("amount %s, rate %s%%/month", loans[i].Amount.StringFixed(2), loans[i].Rate))
		return loans[i], nil
	}
	return model.Loan{}, ErrNotFound
}

// Remove deletes the loan with the given id.
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.store.Load()
	if err != nil {
		return err
	}

	for i, l := range loans {
		if l.ID != id {
			continue
		}
		loans = append(loans[:i], loans[i+1:]...)
		if err := s.store.Save(loans); err != nil {
			return fmt.Errorf("saving ledger: %w", err)
		}
		s.logger.Infof("removed loan %s (%s)", id, l.Person)
		s.record("remove", id, l.Person, "")
		return nil
	}
	return ErrNotFound
}

// Clear deletes every loan and persists the empty collection.
func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.store.Load()
	if err != nil {
		return err
	}
	if err := s.store.Save(nil); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}

	s.logger.Infof("cleared %d loans", len(loans))
	s.record("clear", "", "", fmt.Sprintf("%d loans removed", len(loans)))
	return nil
}

// RefreshAll recomputes every loan against the shared asOf date and persists
// the result. Run before generating a combined report so all figures share
// one reference date.
func (s *Service) RefreshAll(asOf time.Time) ([]model.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	day := interest.Midnight(asOf)
	loans = RefreshAll(loans, day)
	if err := s.store.Save(loans); err != nil {
		return nil, fmt.Errorf("saving ledger: %w", err)
	}

	s.logger.Infof("refreshed %d loans as of %s", len(loans), day.Format("2006-01-02"))
	s.record("refresh", "", "", fmt.Sprintf("%d loans as of %s", len(loans), day.Format("2006-01-02")))
	return loans, nil
}

func (s *Service) record(action, loanID, person, details string) {
	if s.Recorder != nil {
		s.Recorder.Record(action, loanID, person, details)
	}
}
