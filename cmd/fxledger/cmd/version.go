package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the fxledger CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fxledger version %s\n", version)
		fmt.Println("FX broker export reconciliation and trade journal")
		fmt.Println("https://github.com/rustyeddy/fxledger")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
