package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxledger/ledger"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage trade labels",
	Long: `Create labels and attach them to trades.

Subcommands:
  add    - Create a label
  attach - Attach a label to a trade (created if needed)
  detach - Remove a label from a trade
  list   - List labels

Examples:
  fxledger label attach 42 breakout
  fxledger summary --label breakout`,
}

var labelAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelAdd,
}

var labelAttachCmd = &cobra.Command{
	Use:   "attach <trade-id> <name>",
	Short: "Attach a label to a trade",
	Args:  cobra.ExactArgs(2),
	RunE:  runLabelAttach,
}

var labelDetachCmd = &cobra.Command{
	Use:   "detach <trade-id> <name>",
	Short: "Remove a label from a trade",
	Args:  cobra.ExactArgs(2),
	RunE:  runLabelDetach,
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels",
	Args:  cobra.NoArgs,
	RunE:  runLabelList,
}

func init() {
	rootCmd.AddCommand(labelCmd)
	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelAttachCmd)
	labelCmd.AddCommand(labelDetachCmd)
	labelCmd.AddCommand(labelListCmd)
}

func runLabelAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := a.svc.CreateLabel(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("create label: %w", err)
	}
	fmt.Printf("✓ Label %q (%d)\n", l.Name, l.ID)
	return nil
}

func runLabelAttach(cmd *cobra.Command, args []string) error {
	id, err := ledger.ParseTradeID(args[0])
	if err != nil {
		return fmt.Errorf("trade id %q: %w", args[0], err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.AttachLabel(context.Background(), id, args[1]); err != nil {
		return fmt.Errorf("attach label: %w", err)
	}
	fmt.Printf("✓ Labelled trade %s %q\n", id, args[1])
	return nil
}

func runLabelDetach(cmd *cobra.Command, args []string) error {
	id, err := ledger.ParseTradeID(args[0])
	if err != nil {
		return fmt.Errorf("trade id %q: %w", args[0], err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.DetachLabel(context.Background(), id, args[1]); err != nil {
		return fmt.Errorf("detach label: %w", err)
	}
	fmt.Printf("✓ Removed %q from trade %s\n", args[1], id)
	return nil
}

func runLabelList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	labels, err := a.svc.Labels(context.Background())
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	for _, l := range labels {
		fmt.Printf("%4d  %s\n", l.ID, l.Name)
	}
	return nil
}
