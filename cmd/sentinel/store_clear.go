package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/apisec/sentinel/pkg/store"
)

var storeClearFlags struct {
	force bool
}

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the entire asset inventory",
	Long: `Delete every asset, its history, and its findings from the asset store.
Custom rules and stored API specs are left untouched.

Examples:
  sentinel store clear --force`,
	RunE: clearStore,
}

func init() {
	storeCmd.AddCommand(storeClearCmd)

	storeClearCmd.Flags().BoolVar(&storeClearFlags.force, "force", false, "skip the confirmation prompt")
}

func clearStore(cmd *cobra.Command, args []string) error {
	if !storeClearFlags.force {
		fmt.Print("This will permanently delete every asset, its history, and its findings. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg, err := loadConfigOrDefaults()
	if err != nil {
		return err
	}

	assetStore, err := store.New(cfg.Store, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open asset store: %w", err)
	}
	defer assetStore.Close()

	if err := assetStore.ClearInventory(context.Background()); err != nil {
		return fmt.Errorf("failed to clear inventory: %w", err)
	}
	fmt.Println("✓ Asset inventory cleared")
	return nil
}
