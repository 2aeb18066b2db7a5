package intercept

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownID is returned by Resolve when id is not present in the table,
// either because it was never registered or because it was already
// resolved.
var ErrUnknownID = fmt.Errorf("intercept: unknown or already-resolved id")

// Table is a concurrent map from a correlation id to a single-shot
// delivery channel. One Table exists for pending requests and a second,
// identical Table exists for pending responses; the proxy never shares a
// single Table between the two phases.
//
// Register inserts entries; Resolve and Cancel remove them. Removal uses
// LoadAndDelete, so an id is removed at most once and at most one Result
// is delivered for a pending interception entry.
type Table struct {
	pending sync.Map // map[string]chan Result
}

// Register creates a new pending entry with a fresh correlation id and
// returns the id together with the channel the caller must receive the
// eventual Result from.
func (t *Table) Register() (string, <-chan Result) {
	id := uuid.NewString()
	ch := make(chan Result, 1)
	t.pending.Store(id, ch)
	return id, ch
}

// Resolve delivers result to the pending entry registered under id and
// removes the entry. It returns ErrUnknownID if id is not (or is no
// longer) present.
func (t *Table) Resolve(id string, result Result) error {
	v, ok := t.pending.LoadAndDelete(id)
	if !ok {
		return ErrUnknownID
	}
	ch := v.(chan Result)
	ch <- result
	return nil
}

// Cancel removes the pending entry for id without delivering a result,
// for use when the underlying connection is gone (a client disconnect
// aborting the flow's socket).
func (t *Table) Cancel(id string) {
	t.pending.Delete(id)
}

// Has reports whether id currently has a pending entry. Used by tests and
// by control-surface introspection; not part of the resolution protocol.
func (t *Table) Has(id string) bool {
	_, ok := t.pending.Load(id)
	return ok
}

// Peek returns one currently-pending id, if any. Used by control-surface
// listings and by tests that need to resolve whichever id a concurrent
// registration just produced.
func (t *Table) Peek() (string, bool) {
	var found string
	t.pending.Range(func(k, v interface{}) bool {
		found = k.(string)
		return false
	})
	return found, found != ""
}

// Await blocks until id is resolved, ctx is cancelled, or (when timeout is
// positive) the timeout elapses. A timeout expiry resolves locally to
// Forward and also removes the entry from the table, since no true
// built-in timeout exists in the protocol; this is an optional, strictly
// opt-in convenience the default (timeout <= 0) disables entirely, leaving
// the suspension indefinite as specified.
func (t *Table) Await(ctx context.Context, id string, ch <-chan Result, timeout time.Duration) (Result, error) {
	if timeout <= 0 {
		select {
		case res := <-ch:
			return res, nil
		case <-ctx.Done():
			t.Cancel(id)
			return Result{}, ctx.Err()
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		t.Cancel(id)
		return Result{}, ctx.Err()
	case <-timer.C:
		t.Cancel(id)
		return Result{Decision: Forward}, nil
	}
}
