package main

import (
	"github.com/spf13/cobra"
)

var caCmd = &cobra.Command{
	Use:   "ca",
	Short: "Inspect and export the intercepting certificate authority",
	Long: `Inspect and export the certificate authority the proxy uses to mint
per-host leaf certificates for TLS interception.

Subcommands:
  export   - Mint a root CA and write its certificate as PEM
  info     - Display certificate details
  validate - Validate certificate and key pair

Examples:
  # Mint a fresh root and print its PEM
  sentinel ca export

  # Display certificate information
  sentinel ca info root-ca.pem

  # Validate a certificate and key pair
  sentinel ca validate --cert leaf.crt --key leaf.key`,
}

func init() {
	rootCmd.AddCommand(caCmd)
}
