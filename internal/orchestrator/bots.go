package orchestrator

import (
	"context"
	"fmt"

	"github.com/lox/holdemtable/internal/table"
)

// driveBotsLocked sequences the automated seats: it picks the first unacted,
// unfolded bot in display order, asks the server to act for it, re-fetches
// the snapshot, and repeats until none remain. Strictly one at a time:
// each action can change the current bet and therefore the legality of the
// next seat's options, so the next request never goes out before the
// previous response and refresh have been fully processed.
//
// Returns false when a failure interrupted the sequence.
func (o *Orchestrator) driveBotsLocked(ctx context.Context) bool {
	for {
		bot, ok := o.nextPendingBotLocked()
		if !ok {
			return true
		}

		msg, err := o.api.BotAction(ctx, bot.ID)
		if err != nil {
			o.sink.Diagnostic(fmt.Sprintf("bot %s could not act: %v", bot.Name, err))
			return false
		}

		o.tracker.MarkActed(bot.ID)
		if msg != "" {
			o.sink.Event(fmt.Sprintf("%s: %s", bot.Name, msg))
		}

		if err := o.refreshLocked(ctx); err != nil {
			return false
		}
	}
}

// nextPendingBotLocked returns the first automated seat still required to
// act this phase, in display order.
func (o *Orchestrator) nextPendingBotLocked() (table.PlayerView, bool) {
	if o.snap == nil || o.handOver {
		return table.PlayerView{}, false
	}
	// Nothing to drive once the phase can already advance; in particular a
	// fold that leaves one seat standing must not trigger further bot turns.
	if o.tracker.AllActed(o.snap.Players) {
		return table.PlayerView{}, false
	}
	for _, p := range o.tracker.Unacted(o.snap.Players) {
		if table.IsBot(p) {
			return p, true
		}
	}
	return table.PlayerView{}, false
}
