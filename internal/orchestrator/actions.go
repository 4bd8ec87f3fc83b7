package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/lox/holdemtable/internal/table"
)

// Precondition violations are rejected before any network call is made.
var (
	ErrIllegalCheck = errors.New("cannot check unless your bet matches the highest bet or you are all-in")
	ErrBadAmount    = errors.New("bet must be positive and cannot exceed your chips")
)

// Fold folds the human-controlled seat.
func (o *Orchestrator) Fold(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	seat, ok := o.humanSeatLocked()
	if !ok {
		return nil
	}

	if err := o.api.Fold(ctx, seat.ID); err != nil {
		o.sink.Diagnostic(fmt.Sprintf("fold failed: %v", err))
		return err
	}

	o.tracker.MarkActed(seat.ID)
	o.sink.Event(fmt.Sprintf("%s folds", seat.Name))
	o.afterActionLocked(ctx)
	return nil
}

// Check checks for the human-controlled seat. Legal only when the seat's
// bet already matches the highest bet, or the seat is all-in.
func (o *Orchestrator) Check(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	seat, ok := o.humanSeatLocked()
	if !ok {
		return nil
	}

	if seat.BetAmount != o.snap.CurrentBet && seat.Chips > 0 {
		o.sink.Diagnostic(ErrIllegalCheck.Error())
		return ErrIllegalCheck
	}

	if err := o.api.Check(ctx, seat.ID); err != nil {
		o.sink.Diagnostic(fmt.Sprintf("check failed: %v", err))
		return err
	}

	o.tracker.MarkActed(seat.ID)
	o.sink.Event(fmt.Sprintf("%s checks", seat.Name))
	o.afterActionLocked(ctx)
	return nil
}

// Bet places a bet or raise for the human-controlled seat. The amount must
// be positive and within the seat's chips; the suggested minimum raise is
// advisory only and not enforced here.
func (o *Orchestrator) Bet(ctx context.Context, amount int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	seat, ok := o.humanSeatLocked()
	if !ok {
		return nil
	}
	return o.betLocked(ctx, seat, amount)
}

// AllIn bets the seat's full stack.
func (o *Orchestrator) AllIn(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	seat, ok := o.humanSeatLocked()
	if !ok {
		return nil
	}
	return o.betLocked(ctx, seat, seat.Chips)
}

func (o *Orchestrator) betLocked(ctx context.Context, seat table.PlayerView, amount int) error {
	if amount <= 0 || amount > seat.Chips {
		o.sink.Diagnostic(ErrBadAmount.Error())
		return ErrBadAmount
	}

	if err := o.api.Bet(ctx, seat.ID, amount); err != nil {
		o.sink.Diagnostic(fmt.Sprintf("bet failed: %v", err))
		return err
	}

	o.tracker.MarkActed(seat.ID)
	o.sink.Event(fmt.Sprintf("%s bets %d", seat.Name, amount))
	o.afterActionLocked(ctx)
	return nil
}

// SuggestedRaise computes an advisory raise amount: one and a half times
// the highest bet, nudged up a little so consecutive suggestions differ,
// clamped to the seat's chips.
func (o *Orchestrator) SuggestedRaise() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	seat, ok := o.humanSeatLocked()
	if !ok {
		return 0
	}

	minRaise := int(math.Ceil(float64(o.snap.CurrentBet) * 1.5))
	if minRaise <= 0 {
		minRaise = 1
	}

	bump := 1 + (rand.Float64()*0.05 + 0.05)
	suggested := int(math.Ceil(float64(minRaise) * bump))
	if suggested < minRaise {
		suggested = minRaise
	}
	if suggested > seat.Chips {
		suggested = seat.Chips
	}
	return suggested
}

// afterActionLocked runs the post-action reconciliation: refresh, drive the
// remaining automated seats, then evaluate the transition guard.
func (o *Orchestrator) afterActionLocked(ctx context.Context) {
	if err := o.refreshLocked(ctx); err != nil {
		return
	}
	o.settleLocked(ctx)
}

// humanSeatLocked resolves the single human-controlled seat. Dispatch is
// impossible without one, so callers no-op after the diagnostic.
func (o *Orchestrator) humanSeatLocked() (table.PlayerView, bool) {
	if o.snap == nil {
		o.sink.Diagnostic("no game in progress")
		return table.PlayerView{}, false
	}
	seat, ok := table.HumanSeat(o.snap.Players)
	if !ok {
		o.sink.Diagnostic("no human-controlled seat at the table")
		return table.PlayerView{}, false
	}
	return seat, true
}
