package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fxledger",
	Short: "Reconcile FX broker exports into a trade journal",
	Long: `fxledger reads the execution history exported by FX brokers, pairs
opening and closing executions into round-trip trades and keeps them in a
local SQLite journal.

It provides tools for:
  - Importing DMM FX and GMO Click CSV exports (Shift-JIS or UTF-8)
  - Matching positions by LIFO, FIFO or reported profit
  - Merging trades the broker split into pieces
  - Daily and filtered summaries on the New York 17:00 close
  - Memos, labels and org-mode / CSV export
  - A small HTTP API over the journal`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./fxledger.yaml if present)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}
