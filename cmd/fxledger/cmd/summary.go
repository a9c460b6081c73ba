package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise trades matching a filter",
	Long: `Print win/loss statistics for the selected trades.

Examples:
  fxledger summary --from 20240101 --to 20240331
  fxledger summary --max-hold 5m --pair USD/JPY
  fxledger summary --by-label`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

var (
	summaryFilter  filterFlags
	summaryByLabel bool
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryFilter.register(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryByLabel, "by-label", false, "one summary per label")
}

func runSummary(cmd *cobra.Command, args []string) error {
	f, err := summaryFilter.filter()
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if summaryByLabel {
		sums, err := a.svc.LabelSummaries(ctx, f)
		if err != nil {
			return fmt.Errorf("label summaries: %w", err)
		}
		for _, ls := range sums {
			report.PrintSummary(os.Stdout, "LABEL: "+ls.Label.Name, ls.Summary)
		}
		return nil
	}

	s, err := a.svc.FilteredSummary(ctx, f)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	report.PrintSummary(os.Stdout, "TRADE SUMMARY", s)
	return nil
}
