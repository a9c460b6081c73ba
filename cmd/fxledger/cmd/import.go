package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import broker execution exports",
	Long: `Read one or more CSV exports from the same broker account, rebuild the
round-trip trades and store them in the journal. The broker is detected from
the header row. All files are imported in one transaction: if any row fails,
nothing is stored. Importing the same file again is harmless.

Examples:
  fxledger import ~/Downloads/dmm_2024*.csv
  fxledger import --json gmo.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var importJSON bool

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importJSON, "json", false, "print the import report as JSON")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.svc.ImportTrades(context.Background(), args)
	if err != nil {
		if rep.ID != "" {
			fmt.Fprint(os.Stderr, rep.String())
		}
		return fmt.Errorf("import: %w", err)
	}

	if importJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Print(rep.String())
	fmt.Printf("✓ Imported %d trades from %d files\n", rep.Inserted, len(rep.Files))
	return nil
}
