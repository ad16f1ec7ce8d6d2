package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(dir)
			if err != nil {
				return err
			}

			loans, err := svc.List()
			if err != nil {
				return err
			}
			if len(loans) == 0 {
				fmt.Println("No loans tracked yet. Add one with 'lendbook add'.")
				return nil
			}

			fmt.Printf("%-36s  %-20s %12s %6s  %-10s  %-10s %6s %12s %12s\n",
				"ID", "PERSON", "AMOUNT", "RATE", "START", "END", "DAYS", "INTEREST", "TOTAL")
			for _, l := range loans {
				fmt.Printf("%-36s  %-20s %12s %5s%%  %-10s  %-10s %6d %12s %12s\n",
					l.ID, l.Person, l.Amount.StringFixed(2), l.Rate,
					l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02"),
					l.Days, l.Interest.StringFixed(2), l.Total.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")

	return cmd
}
