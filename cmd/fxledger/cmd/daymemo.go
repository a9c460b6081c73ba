package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/market"
)

var daymemoCmd = &cobra.Command{
	Use:   "daymemo",
	Short: "Read or write the memo of a business day",
	Long: `Keep one free-text note per business day.

Examples:
  fxledger daymemo set 20240315 "BoJ, stayed out"
  fxledger daymemo get 20240315`,
}

var daymemoSetCmd = &cobra.Command{
	Use:   "set <YYYYMMDD> <text>...",
	Short: "Set the memo of a business day",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDaymemoSet,
}

var daymemoGetCmd = &cobra.Command{
	Use:   "get <YYYYMMDD>",
	Short: "Print the memo of a business day",
	Args:  cobra.ExactArgs(1),
	RunE:  runDaymemoGet,
}

func init() {
	rootCmd.AddCommand(daymemoCmd)
	daymemoCmd.AddCommand(daymemoSetCmd)
	daymemoCmd.AddCommand(daymemoGetCmd)
}

func runDaymemoSet(cmd *cobra.Command, args []string) error {
	d, err := market.ParseBusinessDate(args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.SetDailyMemo(context.Background(), d, strings.Join(args[1:], " ")); err != nil {
		return fmt.Errorf("daymemo: %w", err)
	}
	fmt.Printf("✓ Saved memo for %s\n", d)
	return nil
}

func runDaymemoGet(cmd *cobra.Command, args []string) error {
	d, err := market.ParseBusinessDate(args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.svc.DailyMemo(context.Background(), d)
	if err != nil {
		return fmt.Errorf("daymemo: %w", err)
	}
	fmt.Println(m.Memo)
	return nil
}
