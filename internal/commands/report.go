package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lendbook-dev/lendbook/internal/config"
	"github.com/lendbook-dev/lendbook/internal/ledger"
	"github.com/lendbook-dev/lendbook/internal/notify"
	"github.com/lendbook-dev/lendbook/internal/report"
)

func newReportCommand() *cobra.Command {
	var dir string
	var person string
	var mail bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the combined loan report, or one borrower's report",
		Long: `Print the combined loan report. Without --person, every loan is first
refreshed against today's date and the updated ledger is persisted; with
--person, the report uses each loan's stored figures unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := newService(dir)
			if err != nil {
				return err
			}
			return runReport(os.Stdout, svc, cfg, person, mail)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&person, "person", "", "report on a single borrower (no refresh)")
	cmd.Flags().BoolVar(&mail, "email", false, "also email the report to the configured recipient")

	return cmd
}

func runReport(w io.Writer, svc *ledger.Service, cfg *config.Config, person string, mail bool) error {
	var buf bytes.Buffer
	var subject string

	if person != "" {
		loans, err := svc.List()
		if err != nil {
			return err
		}
		p := report.BuildPerson(loans, person)
		if len(p.Loans) == 0 {
			return fmt.Errorf("no loans for %q", person)
		}
		report.RenderPersonText(&buf, p)
		subject = fmt.Sprintf("Loan report for %s", person)
	} else {
		loans, err := svc.RefreshAll(time.Now())
		if err != nil {
			return err
		}
		report.RenderText(&buf, report.BuildCombined(loans))
		subject = "Loan statement " + time.Now().Format("2006-01-02")
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}

	if !mail {
		return nil
	}
	sender := notify.NewSender(cfg.Notify, newLogger())
	return sender.SendStatement(subject, buf.String())
}
