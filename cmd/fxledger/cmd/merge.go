package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/ledger"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <trade-id> <trade-id>...",
	Short: "Merge trades into one",
	Long: `Combine trades of the same pair and side into a single trade. Lots and
profit are summed, rates and times averaged. The originals are kept but hidden
and their labels move to the new trade.

Example:
  fxledger merge 12 13 14`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func parseTradeIDs(args []string) ([]ledger.TradeID, error) {
	ids := make([]ledger.TradeID, 0, len(args))
	for _, arg := range args {
		id, err := ledger.ParseTradeID(arg)
		if err != nil {
			return nil, fmt.Errorf("trade id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	ids, err := parseTradeIDs(args)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.svc.MergeTrades(context.Background(), ids)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	fmt.Printf("✓ Merged %d trades into %s\n", len(ids), id)
	return nil
}
