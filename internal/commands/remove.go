package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(dir)
			if err != nil {
				return err
			}
			if err := svc.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed loan %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")

	return cmd
}

func newClearCommand() *cobra.Command {
	var dir string
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every loan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the ledger without --yes")
			}
			svc, _, err := newService(dir)
			if err != nil {
				return err
			}
			if err := svc.Clear(); err != nil {
				return err
			}
			fmt.Println("All loans cleared")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the whole ledger")

	return cmd
}
