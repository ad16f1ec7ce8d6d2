// Package server exposes the ledger service as an HTTP JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lendbook-dev/lendbook/internal/interest"
	"github.com/lendbook-dev/lendbook/internal/ledger"
	"github.com/lendbook-dev/lendbook/internal/model"
	"github.com/lendbook-dev/lendbook/internal/report"
)

const dateFormat = "2006-01-02"

// Cache keys for rendered reports.
const (
	cacheKeyReport = "report:combined"
	cacheKeyPeople = "report:people"
	cacheKeyMonths = "report:months"
)

// Server wires the ledger service into HTTP handlers.
type Server struct {
	svc    *ledger.Service
	logger *logrus.Logger
	cache  report.Cache
}

// New creates a Server.
func New(svc *ledger.Service, logger *logrus.Logger, cache report.Cache) *Server {
	return &Server{svc: svc, logger: logger, cache: cache}
}

// Router returns the API routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/loans", s.listLoans).Methods("GET")
	r.HandleFunc("/loans", s.createLoan).Methods("POST")
	r.HandleFunc("/loans", s.clearLoans).Methods("DELETE")
	r.HandleFunc("/loans/{id}", s.getLoan).Methods("GET")
	r.HandleFunc("/loans/{id}", s.updateLoan).Methods("PUT")
	r.HandleFunc("/loans/{id}", s.deleteLoan).Methods("DELETE")
	r.HandleFunc("/refresh", s.refresh).Methods("POST")
	r.HandleFunc("/report", s.combinedReport).Methods("GET")
	r.HandleFunc("/report/people", s.peopleReport).Methods("GET")
	r.HandleFunc("/report/months", s.monthsReport).Methods("GET")
	r.HandleFunc("/export.csv", s.exportCSV).Methods("GET")
	r.HandleFunc("/export.xlsx", s.exportXLSX).Methods("GET")

	return r
}

// Run serves the API until the listener fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.logger.Infof("listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Infof("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

// loanRequest is the JSON body for create/update. Dates are calendar dates;
// a missing end_date means an ongoing loan and defaults to today.
type loanRequest struct {
	Person    string          `json:"person"`
	Amount    decimal.Decimal `json:"amount"`
	Rate      decimal.Decimal `json:"rate"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date,omitempty"`
}

func (lr loanRequest) params() (ledger.Params, error) {
	start, err := time.Parse(dateFormat, lr.StartDate)
	if err != nil {
		return ledger.Params{}, fmt.Errorf("parsing start_date %q: %w", lr.StartDate, err)
	}

	end := interest.Midnight(time.Now())
	if lr.EndDate != "" {
		end, err = time.Parse(dateFormat, lr.EndDate)
		if err != nil {
			return ledger.Params{}, fmt.Errorf("parsing end_date %q: %w", lr.EndDate, err)
		}
	}

	return ledger.Params{
		Person:    lr.Person,
		Amount:    lr.Amount,
		Rate:      lr.Rate,
		StartDate: start,
		EndDate:   end,
	}, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// fail maps service errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalid):
		s.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, ledger.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err)
	default:
		s.logger.Errorf("request failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

// invalidate drops the cached reports after any ledger mutation.
func (s *Server) invalidate() {
	for _, key := range []string{cacheKeyReport, cacheKeyPeople, cacheKeyMonths} {
		if err := s.cache.Delete(key); err != nil {
			s.logger.Warnf("invalidating %s: %v", key, err)
		}
	}
}

func (s *Server) listLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := s.svc.List()
	if err != nil {
		s.fail(w, err)
		return
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	s.writeJSON(w, http.StatusOK, loans)
}

func (s *Server) getLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := s.svc.Get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loan)
}

func (s *Server) createLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	p, err := req.params()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	loan, err := s.svc.Add(p)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.invalidate()
	s.writeJSON(w, http.StatusCreated, loan)
}

func (s *Server) updateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	p, err := req.params()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	loan, err := s.svc.Update(mux.Vars(r)["id"], p)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.invalidate()
	s.writeJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Remove(mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearLoans(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Clear(); err != nil {
		s.fail(w, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// refresh brings every loan up to the shared reference date (today, or the
// as_of query parameter) and persists the result. Clients call this before
// reading a combined report that must be current.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if q := r.URL.Query().Get("as_of"); q != "" {
		parsed, err := time.Parse(dateFormat, q)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("parsing as_of %q: %w", q, err))
			return
		}
		asOf = parsed
	}

	loans, err := s.svc.RefreshAll(asOf)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.invalidate()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"refreshed": len(loans),
		"as_of":     interest.Midnight(asOf).Format(dateFormat),
	})
}

// cachedJSON serves key from the cache, building and caching the payload on
// a miss.
func (s *Server) cachedJSON(w http.ResponseWriter, key string, build func(loans []model.Loan) (any, error)) {
	if payload, ok := s.cache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, payload)
		return
	}

	loans, err := s.svc.List()
	if err != nil {
		s.fail(w, err)
		return
	}
	v, err := build(loans)
	if err != nil {
		s.fail(w, err)
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.cache.Set(key, string(data)); err != nil {
		s.logger.Warnf("caching %s: %v", key, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) combinedReport(w http.ResponseWriter, r *http.Request) {
	s.cachedJSON(w, cacheKeyReport, func(loans []model.Loan) (any, error) {
		return report.BuildCombined(loans), nil
	})
}

func (s *Server) peopleReport(w http.ResponseWriter, r *http.Request) {
	s.cachedJSON(w, cacheKeyPeople, func(loans []model.Loan) (any, error) {
		people := ledger.SummarizeByPerson(loans)
		if people == nil {
			people = []ledger.PersonSummary{}
		}
		return people, nil
	})
}

func (s *Server) monthsReport(w http.ResponseWriter, r *http.Request) {
	s.cachedJSON(w, cacheKeyMonths, func(loans []model.Loan) (any, error) {
		return report.BuildCombined(loans).Months, nil
	})
}

func (s *Server) exportLoans(w http.ResponseWriter, r *http.Request) ([]model.Loan, bool) {
	loans, err := s.svc.List()
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	if person := r.URL.Query().Get("person"); person != "" {
		loans = ledger.FilterPerson(loans, person)
	}
	return loans, true
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	loans, ok := s.exportLoans(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "loan_report_"+time.Now().Format("20060102")+".csv"))
	if err := report.WriteCSV(w, loans); err != nil {
		s.logger.Errorf("writing CSV export: %v", err)
	}
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	loans, ok := s.exportLoans(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "loan_report_"+time.Now().Format("20060102")+".xlsx"))
	if err := report.WriteXLSX(w, loans); err != nil {
		s.logger.Errorf("writing XLSX export: %v", err)
	}
}
