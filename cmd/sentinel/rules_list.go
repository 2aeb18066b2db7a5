package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/apisec/sentinel/pkg/config"
	"github.com/apisec/sentinel/pkg/scanner/plugins"
	"github.com/apisec/sentinel/pkg/store"
)

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom rules and loaded plugin rule packs",
	Long: `List every operator-defined custom rule stored in the asset store and
every YAML rule pack currently loaded from the plugin directory.

Examples:
  sentinel rules list
  sentinel rules list --config /etc/sentinel/config.yaml`,
	RunE: listRules,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
}

func listRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigOrDefaults()
	if err != nil {
		return err
	}

	assetStore, err := store.New(cfg.Store, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open asset store: %w", err)
	}
	defer assetStore.Close()

	ctx := context.Background()
	customRules, err := assetStore.GetCustomRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to list custom rules: %w", err)
	}

	fmt.Printf("Custom rules (%d):\n", len(customRules))
	for _, r := range customRules {
		fmt.Printf("  [%s] %s (%s) — %s\n", r.RuleID, r.Name, r.Severity, r.Regex)
	}

	loader := plugins.NewLoader(cfg.Scanner.PluginDirectory, slog.Default())
	packs, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load plugin rule packs: %w", err)
	}

	fmt.Printf("\nPlugin rule packs (%d):\n", len(packs))
	for _, p := range packs {
		fmt.Printf("  %s v%s by %s (%d rules)\n", p.Name, p.Version, p.Author, len(p.Rules))
		for _, r := range p.Rules {
			fmt.Printf("    [%s] %s (%s)\n", r.ID, r.Name, r.Severity)
		}
	}
	return nil
}

// loadConfigOrDefaults loads the configured file, falling back to package
// defaults for commands that operate against the asset store and plugin
// directory without requiring a running proxy.
func loadConfigOrDefaults() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err == nil {
		return cfg, nil
	}
	cfg = &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg, nil
}
