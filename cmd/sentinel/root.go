package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel - traffic interception and security analysis core",
	Long: `Sentinel is a traffic interception and security analysis core for API
security testing.

It runs a TLS-intercepting MITM proxy with pausable per-message
interception, a passive pattern-matching vulnerability scanner, and an
OpenAPI drift detector, all sharing a single asset store:
  - Dynamic per-host certificate minting behind an in-memory root CA
  - Operator-resolvable pausing of in-flight requests and responses
  - A large built-in rule catalog plus YAML-defined custom rule packs
  - Detection of undocumented methods and extra or missing response
    fields against stored OpenAPI specs

For more information, visit: https://github.com/apisec/sentinel`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Disable default completion command (we'll add our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
