package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/apisec/sentinel/pkg/config"
)

// HistoryPruner is the one store operation retention needs: deleting
// asset_history rows older than a cutoff. Decoupling on this interface
// keeps the retention package from importing pkg/store's SQLite backend
// directly.
type HistoryPruner interface {
	PruneHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner enforces the asset-history retention window: history rows
// older than cfg.Days are deleted; cfg.Days == 0 disables pruning
// entirely, preserving the "never mutated" history default.
type Pruner struct {
	store  HistoryPruner
	cfg    config.RetentionConfig
	logger *slog.Logger
}

// NewPruner constructs a Pruner over store using cfg.
func NewPruner(store HistoryPruner, cfg config.RetentionConfig, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{store: store, cfg: cfg, logger: logger.With("component", "store.retention")}
}

// Prune deletes asset_history rows older than cfg.Days. A zero Days
// disables pruning and returns immediately without touching the store.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.cfg.Days <= 0 {
		p.logger.Debug("asset-history retention disabled, skipping prune")
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.cfg.Days)
	deleted, err := p.store.PruneHistoryBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune asset history: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("pruned asset history", "deleted_count", deleted, "retention_days", p.cfg.Days)
	} else {
		p.logger.Debug("no asset history rows older than the retention window")
	}
	return deleted, nil
}
