package main

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/apisec/sentinel/pkg/scanner/plugins"
)

var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the plugin directory's YAML rule packs",
	Long: `Load every YAML rule pack in the configured plugin directory and report
any rule whose regex fails to compile.

The scanner itself never raises an error for an uncompilable rule — it
skips the rule silently and keeps evaluating the rest of the pack. This
command exists to surface exactly those silent skips to an operator
editing a rule pack.

Examples:
  sentinel rules validate
  sentinel rules validate --config /etc/sentinel/config.yaml`,
	RunE: validateRules,
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
}

func validateRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigOrDefaults()
	if err != nil {
		return err
	}

	loader := plugins.NewLoader(cfg.Scanner.PluginDirectory, slog.Default())
	packs, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load plugin rule packs: %w", err)
	}

	var badRules int
	for _, p := range packs {
		for _, r := range p.Rules {
			if _, err := regexp.Compile(r.Regex); err != nil {
				badRules++
				fmt.Printf("✗ %s: rule %q (%s): %v\n", p.Name, r.ID, r.Regex, err)
			}
		}
	}

	if badRules == 0 {
		fmt.Printf("✓ %d rule pack(s) valid\n", len(packs))
		return nil
	}
	return fmt.Errorf("%d rule(s) failed to compile", badRules)
}
