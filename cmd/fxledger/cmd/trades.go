package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/market"
	"github.com/rustyeddy/fxledger/report"
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List trades in the journal",
	Long: `List active trades ordered by exit time.

Examples:
  fxledger trades --from 20240101 --to 20240131
  fxledger trades --label breakout --format org`,
	Args: cobra.NoArgs,
	RunE: runTrades,
}

var (
	tradesFilter filterFlags
	tradesFormat string
)

func init() {
	rootCmd.AddCommand(tradesCmd)
	tradesFilter.register(tradesCmd)
	tradesCmd.Flags().StringVarP(&tradesFormat, "format", "f", "text", "text, org, csv or json")
}

func runTrades(cmd *cobra.Command, args []string) error {
	f, err := tradesFilter.filter()
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

	switch tradesFormat {
	case "org":
		labels, err := a.svc.TradeLabels(ctx, trades)
		if err != nil {
			return err
		}
		fmt.Println(report.FormatTradesOrg(trades, labels))
	case "csv":
		return report.WriteCSV(os.Stdout, trades)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(trades)
	case "text":
		fmt.Printf("%6s  %-8s  %-5s  %5s  %10s  %10s  %-16s  %8s  %8s  %6s\n",
			"id", "pair", "side", "lot", "entry", "exit", "exit time (UTC)", "hold", "profit", "pips")
		for _, t := range trades {
			prec := int(market.Lookup(t.Pair).PricePrecision())
			fmt.Printf("%6s  %-8s  %-5s  %5g  %10.*f  %10.*f  %-16s  %8s  %8d  %6d\n",
				t.ID, t.Pair, t.Side, t.Lot, prec, t.EntryRate, prec, t.ExitRate,
				t.ExitTime.UTC().Format("2006-01-02 15:04"), t.HoldingTime().Round(time.Second),
				t.Profit, t.ProfitPips)
		}
		fmt.Printf("\n%d trades\n", len(trades))
	default:
		return fmt.Errorf("unknown format %q", tradesFormat)
	}
	return nil
}
