package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/report"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Summarise trades per business day",
	Long: `Print one line per business day. A business day ends at 17:00
New York time, so trades closed on a Friday evening in Tokyo count toward
Friday.`,
	Args: cobra.NoArgs,
	RunE: runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	days, err := a.svc.DailySummaries(context.Background())
	if err != nil {
		return fmt.Errorf("daily summaries: %w", err)
	}
	report.PrintDaily(os.Stdout, days)
	return nil
}
