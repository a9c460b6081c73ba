package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/ledger"
)

var memoCmd = &cobra.Command{
	Use:   "memo <trade-id> <text>...",
	Short: "Set the memo of a trade",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMemo,
}

func init() {
	rootCmd.AddCommand(memoCmd)
}

func runMemo(cmd *cobra.Command, args []string) error {
	id, err := ledger.ParseTradeID(args[0])
	if err != nil {
		return fmt.Errorf("trade id %q: %w", args[0], err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.UpdateMemo(context.Background(), id, strings.Join(args[1:], " ")); err != nil {
		return fmt.Errorf("memo: %w", err)
	}
	fmt.Printf("✓ Updated memo of trade %s\n", id)
	return nil
}
