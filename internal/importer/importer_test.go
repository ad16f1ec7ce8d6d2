package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestSheetParse(t *testing.T) {
	in := "person,amount,rate,start_date,end_date\n" +
		"Alice,10000,1.5,2024-01-01,2024-01-31\n" +
		"Bob,5000,2,2024-02-01,\n"

	p := &SheetParser{Today: date(2024, 3, 1)}
	params, err := p.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "Alice", params[0].Person)
	assert.True(t, params[0].Amount.Equal(dec("10000")))
	assert.True(t, params[0].Rate.Equal(dec("1.5")))
	assert.Equal(t, date(2024, 1, 1), params[0].StartDate)
	assert.Equal(t, date(2024, 1, 31), params[0].EndDate)

	// Empty end date means an ongoing loan, measured to today.
	assert.Equal(t, date(2024, 3, 1), params[1].EndDate)
}

func TestSheetParseFourColumns(t *testing.T) {
	in := "person,amount,rate,start_date\n" +
		"Carol,2000,1,2024-03-05\n"

	p := &SheetParser{Today: date(2024, 3, 10)}
	params, err := p.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, date(2024, 3, 10), params[0].EndDate)
}

func TestSheetParseHeaderOnly(t *testing.T) {
	p := &SheetParser{}
	params, err := p.Parse(strings.NewReader("person,amount,rate,start_date,end_date\n"))
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestSheetParseBadRow(t *testing.T) {
	in := "person,amount,rate,start_date,end_date\n" +
		"Alice,ten thousand,1.5,2024-01-01,2024-01-31\n"

	p := &SheetParser{}
	_, err := p.Parse(strings.NewReader(in))
	assert.ErrorContains(t, err, "row 2")
	assert.ErrorContains(t, err, "parsing amount")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.NotNil(t, r.Get("sheet"))
	assert.NotNil(t, r.Get("SHEET"), "lookup is case-insensitive")
	assert.Nil(t, r.Get("qif"))

	assert.Panics(t, func() { r.Register(&SheetParser{}) })
}

func TestScanAndMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "import"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "import", "loans.csv"), []byte("person\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "import", "notes.txt"), []byte("skip me"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "loans.csv", files[0].Name)

	require.NoError(t, MarkProcessed(dir, "loans.csv"))

	files, err = Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "loans.csv"))
	assert.NoError(t, err)
}

func TestScanMissingDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}
