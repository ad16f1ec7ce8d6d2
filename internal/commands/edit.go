package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/lendbook-dev/lendbook/internal/ledger"
)

func newEditCommand() *cobra.Command {
	var dir string
	var person string
	var amount, rate float64
	var start, end string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a loan's fields and recompute its interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(dir)
			if err != nil {
				return err
			}

			existing, err := svc.Get(args[0])
			if err != nil {
				return err
			}

			// Start from the stored fields; only flags that were set change.
			p := ledger.Params{
				Person:    existing.Person,
				Amount:    existing.Amount,
				Rate:      existing.Rate,
				StartDate: existing.StartDate,
				EndDate:   existing.EndDate,
			}
			if cmd.Flags().Changed("person") {
				p.Person = person
			}
			if cmd.Flags().Changed("amount") {
				p.Amount = decimal.NewFromFloat(amount)
			}
			if cmd.Flags().Changed("rate") {
				p.Rate = decimal.NewFromFloat(rate)
			}
			if cmd.Flags().Changed("start") {
				if p.StartDate, err = parseDate(start); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("end") {
				if p.EndDate, err = parseDate(end); err != nil {
					return err
				}
			}

			l, err := svc.Update(args[0], p)
			if err != nil {
				return err
			}

			fmt.Printf("Updated loan %s for %s: %s @ %s%%/month, %d days, total %s\n",
				l.ID, l.Person, l.Amount.StringFixed(2), l.Rate, l.Days, l.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&person, "person", "", "borrower name")
	cmd.Flags().Float64Var(&amount, "amount", 0, "principal lent")
	cmd.Flags().Float64Var(&rate, "rate", 0, "monthly interest rate in percent")
	cmd.Flags().StringVar(&start, "start", "", "loan date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "calculation end date, YYYY-MM-DD")

	return cmd
}
