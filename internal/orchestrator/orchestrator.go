// Package orchestrator drives the betting round on behalf of the
// presentation layer: it reconciles local state against the server's
// authoritative snapshot, tracks which seats have acted each phase,
// sequences automated seats one at a time, and decides when it is safe to
// request the next community-card deal.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemtable/internal/api"
	"github.com/lox/holdemtable/internal/table"
)

// Sink receives game events and diagnostics for display. The orchestrator
// knows nothing about rendering; the presentation layer implements this.
type Sink interface {
	// Event reports normal game flow (actions, deals, winners).
	Event(msg string)

	// Diagnostic reports a failure the user may want to act on. Failures
	// are surfaced exactly once and never escalate to a crash.
	Diagnostic(msg string)
}

// Orchestrator owns the last-fetched snapshot and the per-phase action
// tracker. All mutation funnels through its methods, and the mutex keeps
// exactly one mutating server call in flight at a time.
type Orchestrator struct {
	api    *api.Client
	sink   Sink
	logger *log.Logger
	roster []api.PlayerInfo

	mu       sync.Mutex
	snap     *table.Snapshot
	tracker  *table.Tracker
	handOver bool
	winner   string
}

// New creates an orchestrator. The roster is used to bootstrap a fresh game
// when the server reports none in progress.
func New(client *api.Client, roster []api.PlayerInfo, sink Sink, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		api:    client,
		sink:   sink,
		logger: logger.WithPrefix("orchestrator"),
		roster: roster,
	}
}

// Sync fetches the current snapshot and settles the table: drives pending
// automated seats, then advances the phase if every seat has acted.
func (o *Orchestrator) Sync(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.refreshLocked(ctx); err != nil {
		return
	}
	o.settleLocked(ctx)
}

// Deliver feeds a push-channel snapshot through the same reconciliation
// path as a poll result.
func (o *Orchestrator) Deliver(ctx context.Context, snap *table.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.adoptLocked(snap)
	o.settleLocked(ctx)
}

// refreshLocked requests the current snapshot and reconciles it. A
// not-found response bootstraps a fresh game; a malformed payload or any
// other failure leaves local state unchanged.
func (o *Orchestrator) refreshLocked(ctx context.Context) error {
	snap, err := o.api.Status(ctx)
	switch {
	case errors.Is(err, api.ErrNoGame):
		return o.bootstrapLocked(ctx)
	case errors.Is(err, api.ErrMalformed):
		o.sink.Diagnostic("server sent a malformed snapshot; keeping last known state")
		return err
	case err != nil:
		o.sink.Diagnostic(fmt.Sprintf("could not fetch game state: %v", err))
		return err
	}

	o.adoptLocked(snap)
	return nil
}

// bootstrapLocked starts a fresh game with the configured roster.
func (o *Orchestrator) bootstrapLocked(ctx context.Context) error {
	o.logger.Info("no active game, starting a new one", "seats", len(o.roster))

	snap, err := o.api.Start(ctx, o.roster)
	if err != nil {
		o.sink.Diagnostic(fmt.Sprintf("could not start a new game: %v", err))
		return err
	}

	o.handOver = false
	o.winner = ""
	o.adoptLocked(snap)
	o.sink.Event("new game started")
	return nil
}

// adoptLocked replaces the snapshot wholesale, then reclassifies seats,
// recomputes the pot and highest bet, and resets the tracker when the
// phase changed. Server-reported action flags are merged into the tracker
// so that a poll after a missed push still converges.
func (o *Orchestrator) adoptLocked(snap *table.Snapshot) {
	snap.Players = table.Arrange(snap.Players)
	snap.CurrentPot = table.Pot(snap.Players)
	snap.CurrentBet = table.HighestBet(snap.Players)

	if o.tracker == nil {
		o.tracker = table.NewTracker(snap.Phase)
	} else if o.tracker.Phase() != snap.Phase {
		o.tracker.Reset(snap.Phase)
		if snap.Phase == table.PreFlop {
			// A new hand started behind our back.
			o.handOver = false
			o.winner = ""
		}
	}

	// A snapshot already at the terminal phase is a finished hand no matter
	// how it arrived; nothing may be sequenced or dispatched on it.
	if snap.Phase.Terminal() {
		o.handOver = true
	}

	for id, acted := range snap.PlayerActions {
		if acted {
			o.tracker.MarkActed(id)
		}
	}

	o.snap = snap
	o.logger.Debug("snapshot adopted",
		"phase", snap.Phase,
		"pot", snap.CurrentPot,
		"current_bet", snap.CurrentBet,
		"seats", len(snap.Players))
}

// settleLocked alternates the bot sequencer and the phase transition engine
// until the table stops making progress. A hand where a fold leaves no
// eligible seats advances through every remaining phase in one pass.
func (o *Orchestrator) settleLocked(ctx context.Context) {
	const maxRounds = 8 // phases plus slack; guards against a confused server

	for range maxRounds {
		if o.snap == nil {
			return
		}
		if o.handOver {
			// A hand adopted at showdown was resolved without us; fetch the
			// winner announcement so the banner still appears.
			if o.winner == "" && o.snap.Phase.Terminal() {
				o.endHandLocked(ctx)
			}
			return
		}
		phaseBefore := o.snap.Phase

		if !o.driveBotsLocked(ctx) {
			return
		}
		o.advanceLocked(ctx)

		if o.snap == nil || o.handOver || o.snap.Phase == phaseBefore {
			return
		}
	}
}

// StartNew starts a fresh game with the configured roster, replacing any
// game in progress.
func (o *Orchestrator) StartNew(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.bootstrapLocked(ctx); err != nil {
		return
	}
	o.settleLocked(ctx)
}

// ResetGame resets the table, optionally keeping the seated players.
func (o *Orchestrator) ResetGame(ctx context.Context, keepPlayers bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap, err := o.api.Reset(ctx, keepPlayers)
	if err != nil {
		o.sink.Diagnostic(fmt.Sprintf("could not reset the game: %v", err))
		return
	}

	o.handOver = false
	o.winner = ""
	if o.tracker != nil {
		o.tracker.Reset(snap.Phase)
	}
	o.adoptLocked(snap)
	o.sink.Event("game reset")
	o.settleLocked(ctx)
}

// NewMatch starts the next match with the current players.
func (o *Orchestrator) NewMatch(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap, err := o.api.NewMatch(ctx)
	if err != nil {
		o.sink.Diagnostic(fmt.Sprintf("could not start a new match: %v", err))
		return
	}

	o.handOver = false
	o.winner = ""
	if o.tracker != nil {
		o.tracker.Reset(snap.Phase)
	}
	o.adoptLocked(snap)
	o.sink.Event("new match started")
	o.settleLocked(ctx)
}
