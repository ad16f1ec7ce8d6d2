package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lendbook-dev/lendbook/internal/importer"
	"github.com/lendbook-dev/lendbook/internal/ledger"
)

func newImportCommand() *cobra.Command {
	var dir string
	var format string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import loans from a spreadsheet export",
		Long: `Import loans from a CSV export. With a file argument, that file is
imported; without one, every CSV in the ledger's import/ directory is
imported and moved to import/processed/.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(dir)
			if err != nil {
				return err
			}

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", format)
			}

			if len(args) == 1 {
				n, err := importFile(svc, parser, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Imported %d loans from %s\n", n, args[0])
				return nil
			}
			return runImportDir(svc, parser, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&format, "format", "sheet", "import format")

	return cmd
}

func importFile(svc *ledger.Service, parser importer.Parser, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i, p := range rows {
		if _, err := svc.Add(p); err != nil {
			return i, fmt.Errorf("adding row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

func runImportDir(svc *ledger.Service, parser importer.Parser, dir string) error {
	files, err := importer.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("Nothing to import: drop CSV files into import/ first.")
		return nil
	}

	for _, file := range files {
		n, err := importFile(svc, parser, file.Path)
		if err != nil {
			return fmt.Errorf("importing %s: %w", file.Name, err)
		}
		if err := importer.MarkProcessed(dir, file.Name); err != nil {
			return err
		}
		fmt.Printf("Imported %d loans from %s\n", n, file.Name)
	}
	return nil
}
