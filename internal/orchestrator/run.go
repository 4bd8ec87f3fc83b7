package orchestrator

import (
	"context"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/holdemtable/internal/table"
)

// Run polls the server on the given interval and folds push-channel
// snapshots into the same reconciliation path. It returns when the context
// is cancelled. The snapshots channel may be nil when no push transport is
// configured; a closed channel degrades to poll-only operation.
func (o *Orchestrator) Run(ctx context.Context, clock quartz.Clock, interval time.Duration, snapshots <-chan *table.Snapshot) error {
	o.Sync(ctx)

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			o.Deliver(ctx, snap)

		case <-ticker.C:
			o.Sync(ctx)
		}
	}
}
