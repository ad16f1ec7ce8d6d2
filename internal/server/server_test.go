package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendbook-dev/lendbook/internal/ledger"
	"github.com/lendbook-dev/lendbook/internal/model"
	"github.com/lendbook-dev/lendbook/internal/report"
	"github.com/lendbook-dev/lendbook/internal/store"
)

func testServer() *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := ledger.NewService(store.NewMemoryStore(), logger)
	return New(svc, logger, report.NewMemoryCache())
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func addLoan(t *testing.T, h http.Handler) model.Loan {
	t.Helper()
	rec := doJSON(t, h, "POST", "/loans",
		`{"person":"Alice","amount":"10000","rate":"1.5","start_date":"2024-01-01","end_date":"2024-01-31"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var l model.Loan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
	return l
}

func TestCreateAndListLoans(t *testing.T) {
	h := testServer().Router()

	l := addLoan(t, h)
	assert.Len(t, l.ID, 36)
	assert.Equal(t, 30, l.Days)
	assert.Equal(t, "150", l.Interest.String())

	rec := doJSON(t, h, "GET", "/loans", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var loans []model.Loan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loans))
	require.Len(t, loans, 1)
	assert.Equal(t, l.ID, loans[0].ID)
}

func TestListLoansEmpty(t *testing.T) {
	h := testServer().Router()

	rec := doJSON(t, h, "GET", "/loans", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreateLoanBadJSON(t *testing.T) {
	h := testServer().Router()

	rec := doJSON(t, h, "POST", "/loans", `{"person":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLoanInvalidParams(t *testing.T) {
	h := testServer().Router()

	rec := doJSON(t, h, "POST", "/loans",
		`{"person":"","amount":"10000","rate":"1.5","start_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, "POST", "/loans",
		`{"person":"Alice","amount":"10000","rate":"1.5","start_date":"not-a-date"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLoan(t *testing.T) {
	h := testServer().Router()
	l := addLoan(t, h)

	rec := doJSON(t, h, "GET", "/loans/"+l.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, "GET", "/loans/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateLoan(t *testing.T) {
	h := testServer().Router()
	l := addLoan(t, h)

	rec := doJSON(t, h, "PUT", "/loans/"+l.ID,
		`{"person":"Alice","amount":"10000","rate":"3","start_date":"2024-01-01","end_date":"2024-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Loan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, l.ID, updated.ID)
	assert.Equal(t, "300", updated.Interest.String())

	rec = doJSON(t, h, "PUT", "/loans/nope",
		`{"person":"Alice","amount":"10000","rate":"3","start_date":"2024-01-01","end_date":"2024-01-31"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAndClearLoans(t *testing.T) {
	h := testServer().Router()
	l := addLoan(t, h)

	rec := doJSON(t, h, "DELETE", "/loans/"+l.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, "DELETE", "/loans/"+l.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	addLoan(t, h)
	rec = doJSON(t, h, "DELETE", "/loans", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, "GET", "/loans", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestRefresh(t *testing.T) {
	h := testServer().Router()
	addLoan(t, h)

	rec := doJSON(t, h, "POST", "/refresh?as_of=2024-03-01", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["refreshed"])
	assert.Equal(t, "2024-03-01", resp["as_of"])

	var loans []model.Loan
	rec = doJSON(t, h, "GET", "/loans", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loans))
	assert.Equal(t, 60, loans[0].Days)

	rec = doJSON(t, h, "POST", "/refresh?as_of=March", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCombinedReportCacheInvalidation(t *testing.T) {
	h := testServer().Router()
	addLoan(t, h)

	rec := doJSON(t, h, "GET", "/report", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var first report.Combined
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, 1, first.Summary.Loans)

	// A mutation must drop the cached payload.
	addLoan(t, h)
	rec = doJSON(t, h, "GET", "/report", "")

	var second report.Combined
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, 2, second.Summary.Loans)
}

func TestPeopleAndMonthsReports(t *testing.T) {
	h := testServer().Router()
	addLoan(t, h)

	rec := doJSON(t, h, "GET", "/report/people", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var people []ledger.PersonSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &people))
	require.Len(t, people, 1)
	assert.Equal(t, "Alice", people[0].Person)

	rec = doJSON(t, h, "GET", "/report/months", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jan 2024")
}

func TestExportEndpoints(t *testing.T) {
	h := testServer().Router()
	addLoan(t, h)

	rec := doJSON(t, h, "GET", "/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Alice")

	rec = doJSON(t, h, "GET", "/export.csv?person=Nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Alice")

	rec = doJSON(t, h, "GET", "/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}
