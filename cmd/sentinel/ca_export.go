package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apisec/sentinel/pkg/config"
	"github.com/apisec/sentinel/pkg/proxy/ca"
)

var caExportFlags struct {
	output string
}

var caExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Mint a root CA and write its certificate as PEM",
	Long: `Mint a root certificate authority using the configured CA settings and
write its certificate as PEM.

The proxy's root CA is generated fresh in memory on every process start
and is never written to disk, so this command mints its own independent
root rather than reading one back from a running "sentinel run" process.
The root this command prints is unrelated to the root of any running
proxy, and running this command again produces a different root. The
root a running "sentinel run" process uses is served by its control API
at GET /v1/ca/root.

Examples:
  # Print the root certificate to stdout
  sentinel ca export

  # Write it to a file for import into a browser trust store
  sentinel ca export --output root-ca.pem`,
	RunE: exportRootCA,
}

func init() {
	caCmd.AddCommand(caExportCmd)

	caExportCmd.Flags().StringVarP(&caExportFlags.output, "output", "o", "", "write PEM to this file instead of stdout")
}

func exportRootCA(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}

	mgr, err := ca.NewManager(cfg.CA)
	if err != nil {
		return fmt.Errorf("failed to mint root CA: %w", err)
	}

	pem := mgr.RootPEM()
	if caExportFlags.output == "" {
		_, err = os.Stdout.Write(pem)
		return err
	}

	if err := os.WriteFile(caExportFlags.output, pem, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", caExportFlags.output, err)
	}
	fmt.Printf("✓ Root CA written to %s\n", caExportFlags.output)
	return nil
}
