package table

// Tracker records which seats have completed their action in the current
// phase. It is process-local: created when a hand starts, cleared whenever
// the phase advances or the game resets, and never persisted.
type Tracker struct {
	phase Phase
	acted map[string]bool
}

// NewTracker returns an empty tracker for the given phase.
func NewTracker(phase Phase) *Tracker {
	return &Tracker{
		phase: phase,
		acted: make(map[string]bool),
	}
}

// Phase returns the phase this tracker is recording.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// MarkActed records that the seat has completed its action this phase.
func (t *Tracker) MarkActed(id string) {
	t.acted[id] = true
}

// Acted reports whether the seat has been explicitly marked this phase.
func (t *Tracker) Acted(id string) bool {
	return t.acted[id]
}

// Reset clears all recorded actions and begins tracking the new phase.
func (t *Tracker) Reset(phase Phase) {
	t.phase = phase
	t.acted = make(map[string]bool)
}

// AllActed reports whether every seat has either acted, folded, or gone
// all-in. A roster with no eligible seats is vacuously all-acted, as is one
// where at most one seat is still unfolded: with nobody left to bet
// against, no further action is owed and the hand can finish. This is what
// prevents a deadlock when everyone but one seat has folded or is all-in.
func (t *Tracker) AllActed(players []PlayerView) bool {
	unfolded := 0
	for _, p := range players {
		if !p.Folded {
			unfolded++
		}
	}
	if unfolded <= 1 {
		return true
	}

	for _, p := range players {
		if !p.Eligible() {
			continue
		}
		if !t.acted[p.ID] {
			return false
		}
	}
	return true
}

// Unacted returns the seats that are still required to act this phase,
// preserving the order given.
func (t *Tracker) Unacted(players []PlayerView) []PlayerView {
	var pending []PlayerView
	for _, p := range players {
		if p.Eligible() && !t.acted[p.ID] {
			pending = append(pending, p)
		}
	}
	return pending
}
