package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/report"
)

var exportCmd = &cobra.Command{
	Use:   "export <output>",
	Short: "Export trades to CSV or org-mode",
	Long: `Write the selected trades to a file. Files ending in .org get org-mode
entries with labels as tags; anything else gets CSV.

Examples:
  fxledger export trades.csv --from 20240101
  fxledger export journal.org --label breakout`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var exportFilter filterFlags

func init() {
	rootCmd.AddCommand(exportCmd)
	exportFilter.register(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	f, err := exportFilter.filter()
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	trades, err := a.svc.Trades(ctx, f)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create %s: %w", args[0], err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if strings.HasSuffix(args[0], ".org") {
		labels, err := a.svc.TradeLabels(ctx, trades)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, report.FormatTradesOrg(trades, labels)); err != nil {
			return err
		}
	} else if err := report.WriteCSV(out, trades); err != nil {
		return err
	}

	fmt.Printf("✓ Exported %d trades to %s\n", len(trades), args[0])
	return nil
}
