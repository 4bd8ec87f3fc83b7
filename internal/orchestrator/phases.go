package orchestrator

import (
	"context"
	"fmt"

	"github.com/lox/holdemtable/internal/table"
)

// advanceLocked is the phase transition engine. A transition fires only
// when every eligible seat has acted this phase; otherwise the table is
// left awaiting further action. From River the hand is resolved instead of
// dealt. When a deal request fails the local phase is never advanced; the
// snapshot is re-fetched so the server's view wins.
func (o *Orchestrator) advanceLocked(ctx context.Context) {
	if o.snap == nil || o.handOver {
		return
	}
	if !o.tracker.AllActed(o.snap.Players) {
		return
	}

	switch o.snap.Phase {
	case table.Showdown:
		// Terminal until a new hand or match is started.
		return

	case table.River:
		o.endHandLocked(ctx)

	default:
		next := o.snap.Phase.Next()
		snap, err := o.api.Deal(ctx, next)
		if err != nil {
			o.sink.Diagnostic(fmt.Sprintf("could not deal the %s: %v", next, err))
			_ = o.refreshLocked(ctx)
			return
		}

		o.tracker.Reset(next)
		o.adoptLocked(snap)
		o.sink.Event(fmt.Sprintf("*** %s ***", next))
	}
}

// endHandLocked requests showdown resolution and records the winner.
func (o *Orchestrator) endHandLocked(ctx context.Context) {
	winner, err := o.api.End(ctx)
	if err != nil {
		o.sink.Diagnostic(fmt.Sprintf("could not resolve the hand: %v", err))
		_ = o.refreshLocked(ctx)
		return
	}

	o.handOver = true
	o.winner = winner
	if winner != "" {
		o.sink.Event(winner)
	}

	// The resolved snapshot carries the final board and chip counts.
	_ = o.refreshLocked(ctx)
}
