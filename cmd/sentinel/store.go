package main

import (
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Search and clear the asset store",
	Long: `Operate on the asset store directly, without a running proxy.

Subcommands:
  search - Search assets and findings by substring
  clear  - Clear the entire asset inventory

Examples:
  sentinel store search --query jwt
  sentinel store clear`,
}

func init() {
	rootCmd.AddCommand(storeCmd)
}
