package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lendbook-dev/lendbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "lendbook",
		Short:   "Track informal loans and the interest they accrue",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newEditCommand())
	rootCmd.AddCommand(newRemoveCommand())
	rootCmd.AddCommand(newClearCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newLogCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
