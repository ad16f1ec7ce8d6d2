package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/lendbook-dev/lendbook/internal/model"
)

// exportColumns are the download columns, in order. The internal id is not
// part of a report someone hands to a borrower.
var exportColumns = []string{
	"person", "amount", "rate", "start_date", "end_date", "days", "interest", "total",
}

const exportDateFormat = "2006-01-02"

func exportRow(l model.Loan) []string {
	return []string{
		l.Person,
		l.Amount.StringFixed(2),
		l.Rate.String(),
		l.StartDate.Format(exportDateFormat),
		l.EndDate.Format(exportDateFormat),
		strconv.Itoa(l.Days),
		l.Interest.StringFixed(2),
		l.Total.StringFixed(2),
	}
}

// WriteCSV writes the loans as a downloadable CSV report.
func WriteCSV(w io.Writer, loans []model.Loan) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range loans {
		if err := cw.Write(exportRow(l)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// SheetName is the worksheet holding the exported loans.
const SheetName = "Loans"

// WriteXLSX writes the loans as a downloadable XLSX workbook.
func WriteXLSX(w io.Writer, loans []model.Loan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, col := range exportColumns {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return fmt.Errorf("writing header cell %s: %w", cell, err)
		}
	}

	for idx, l := range loans {
		row := idx + 2
		for i, v := range exportRow(l) {
			cell := fmt.Sprintf("%c%d", 'A'+i, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "H", 14); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
