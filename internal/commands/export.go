package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lendbook-dev/lendbook/internal/ledger"
	"github.com/lendbook-dev/lendbook/internal/model"
	"github.com/lendbook-dev/lendbook/internal/report"
)

func newExportCommand() *cobra.Command {
	var dir string
	var out string
	var person string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the loan report as CSV or XLSX",
		Long: `Export the loan report to a file. The format follows the output
extension: .csv or .xlsx. With --refresh, every loan is first brought up to
today's date, like the combined report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(dir)
			if err != nil {
				return err
			}

			if out == "" {
				out = filepath.Join(dir, "exports",
					"loan_report_"+time.Now().Format("20060102")+".csv")
			}
			return runExport(svc, out, person, refresh)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&out, "out", "", "output file (default exports/loan_report_<date>.csv)")
	cmd.Flags().StringVar(&person, "person", "", "export a single borrower's loans")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refresh all loans to today before exporting")

	return cmd
}

func runExport(svc *ledger.Service, out, person string, refresh bool) error {
	var loans []model.Loan
	var err error
	if refresh {
		loans, err = svc.RefreshAll(time.Now())
	} else {
		loans, err = svc.List()
	}
	if err != nil {
		return err
	}

	if person != "" {
		loans = ledger.FilterPerson(loans, person)
		if len(loans) == 0 {
			return fmt.Errorf("no loans for %q", person)
		}
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(out)) {
	case ".xlsx":
		err = report.WriteXLSX(f, loans)
	default:
		err = report.WriteCSV(f, loans)
	}
	if err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported %d loans to %s\n", len(loans), out)
	return nil
}
