package store

import (
	"context"
	"time"
)

// PruneHistoryBefore deletes every asset_history row recorded before
// cutoff and returns the number of rows removed. It never touches the
// assets or findings tables. This is the one method pkg/store/retention
// depends on.
func (s *Store) PruneHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM asset_history WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, NewStoreError("prune_history", err)
	}
	return res.RowsAffected()
}
