package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/lendbook-dev/lendbook/internal/interest"
	"github.com/lendbook-dev/lendbook/internal/ledger"
)

func newAddCommand() *cobra.Command {
	var dir string
	var person string
	var amount, rate float64
	var start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a loan",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := newService(dir)
			if err != nil {
				return err
			}

			// Unset amount/rate fall back to the configured form defaults.
			if !cmd.Flags().Changed("amount") {
				amount = cfg.Defaults.Amount
			}
			if !cmd.Flags().Changed("rate") {
				rate = cfg.Defaults.Rate
			}

			p, err := loanParams(person, amount, rate, start, end)
			if err != nil {
				return err
			}
			return runAdd(svc, p)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&person, "person", "", "borrower name (required)")
	_ = cmd.MarkFlagRequired("person")
	cmd.Flags().Float64Var(&amount, "amount", 0, "principal lent (default from config)")
	cmd.Flags().Float64Var(&rate, "rate", 0, "monthly interest rate in percent (default from config)")
	cmd.Flags().StringVar(&start, "start", "", "loan date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&end, "end", "", "calculation end date, YYYY-MM-DD (default today; use today for ongoing loans)")

	return cmd
}

// loanParams assembles ledger Params from flag values, defaulting both dates
// to today.
func loanParams(person string, amount, rate float64, start, end string) (ledger.Params, error) {
	today := interest.Midnight(time.Now())

	startDate := today
	if start != "" {
		var err error
		if startDate, err = parseDate(start); err != nil {
			return ledger.Params{}, err
		}
	}

	endDate := today
	if end != "" {
		var err error
		if endDate, err = parseDate(end); err != nil {
			return ledger.Params{}, err
		}
	}

	return ledger.Params{
		Person:    person,
		Amount:    decimal.NewFromFloat(amount),
		Rate:      decimal.NewFromFloat(rate),
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

func runAdd(svc *ledger.Service, p ledger.Params) error {
	l, err := svc.Add(p)
	if err != nil {
		return err
	}

	fmt.Printf("Added loan %s to %s: %s @ %s%%/month, %d days, total %s\n",
		l.ID, l.Person, l.Amount.StringFixed(2), l.Rate, l.Days, l.Total.StringFixed(2))
	return nil
}
