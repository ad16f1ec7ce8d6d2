package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lendbook-dev/lendbook/internal/auditlog"
)

func newLogCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the ledger activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := auditlog.Read(dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No activity recorded yet.")
				return nil
			}

			for _, e := range entries {
				line := fmt.Sprintf("%s  %-8s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action)
				if e.Person != "" {
					line += "  " + e.Person
				}
				if e.Details != "" {
					line += "  (" + e.Details + ")"
				}
				if e.CommitHash != "" {
					line += "  [" + e.CommitHash + "]"
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")

	return cmd
}
