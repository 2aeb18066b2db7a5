package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/apisec/sentinel/pkg/store"
)

var storeSearchFlags struct {
	query string
}

var storeSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search assets and findings by substring",
	Long: `Search the asset store's URLs, bodies, notes, and finding names,
descriptions, and matches for a substring.

Examples:
  sentinel store search --query jwt
  sentinel store search --query "api.internal"`,
	RunE: searchStore,
}

func init() {
	storeCmd.AddCommand(storeSearchCmd)

	storeSearchCmd.Flags().StringVarP(&storeSearchFlags.query, "query", "q", "", "substring to search for (required)")
	_ = storeSearchCmd.MarkFlagRequired("query")
}

func searchStore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigOrDefaults()
	if err != nil {
		return err
	}

	assetStore, err := store.New(cfg.Store, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open asset store: %w", err)
	}
	defer assetStore.Close()

	assets, findings, err := assetStore.GlobalSearch(context.Background(), storeSearchFlags.query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Assets (%d):\n", len(assets))
	for _, a := range assets {
		fmt.Printf("  [%d] %s %s (%d) — %d finding(s)\n", a.ID, a.Method, a.URL, a.StatusCode, a.FindingsCount)
	}

	fmt.Printf("\nFindings (%d):\n", len(findings))
	for _, f := range findings {
		fmt.Printf("  [%s] %s (%s): %s\n", f.RuleID, f.Name, f.Severity, f.MatchContent)
	}
	return nil
}
