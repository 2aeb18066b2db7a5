package main

import (
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List and validate scanner rules",
	Long: `List and validate the passive scanner's rule catalog: operator-defined
custom rules stored in the asset store, and YAML rule packs loaded from
the plugin directory.

Subcommands:
  list     - List custom rules and loaded plugin rule packs
  validate - Validate the plugin directory's YAML rule packs

Examples:
  sentinel rules list
  sentinel rules validate`,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
