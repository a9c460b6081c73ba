package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List recent imports",
	Args:  cobra.NoArgs,
	RunE:  runImports,
}

var importsLimit int

func init() {
	rootCmd.AddCommand(importsCmd)
	importsCmd.Flags().IntVarP(&importsLimit, "limit", "n", 20, "number of imports to show")
}

func runImports(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	batches, err := a.svc.Imports(context.Background(), importsLimit)
	if err != nil {
		return fmt.Errorf("imports: %w", err)
	}
	for _, b := range batches {
		fmt.Printf("%s  %s  %-4s %-9s records=%d new=%d merged=%d unmatched=%d  %s\n",
			b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04"), b.Broker, b.Strategy,
			b.Records, b.Inserted, b.Merged, b.Unmatched, strings.Join(b.Files, ", "))
	}
	return nil
}
