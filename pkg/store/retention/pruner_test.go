package retention

import (
	"context"
	"testing"
	"time"

	"github.com/apisec/sentinel/pkg/config"
)

type stubHistoryPruner struct {
	lastCutoff time.Time
	deleted    int64
}

func (s *stubHistoryPruner) PruneHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.lastCutoff = cutoff
	return s.deleted, nil
}

func TestPruneSkipsWhenDaysZero(t *testing.T) {
	stub := &stubHistoryPruner{deleted: 5}
	p := NewPruner(stub, config.RetentionConfig{Days: 0}, nil)

	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected a disabled pruner to delete nothing, got %d", deleted)
	}
	if !stub.lastCutoff.IsZero() {
		t.Fatalf("expected the store to never be called when retention is disabled")
	}
}

func TestPruneUsesConfiguredWindow(t *testing.T) {
	stub := &stubHistoryPruner{deleted: 3}
	p := NewPruner(stub, config.RetentionConfig{Days: 30}, nil)

	before := time.Now().AddDate(0, 0, -30)
	deleted, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected the stub's deleted count to pass through, got %d", deleted)
	}
	if stub.lastCutoff.After(before.Add(time.Second)) || stub.lastCutoff.Before(before.Add(-time.Second)) {
		t.Fatalf("expected a cutoff ~30 days ago, got %v (reference %v)", stub.lastCutoff, before)
	}
}
