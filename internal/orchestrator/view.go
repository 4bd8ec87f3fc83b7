package orchestrator

import "github.com/lox/holdemtable/internal/table"

// View is a read-only copy of the orchestrator's state for rendering.
type View struct {
	Active     bool
	Phase      table.Phase
	Board      []table.Card
	Seats      []table.PlayerView
	Pot        int
	CurrentBet int

	// Human is the human-controlled seat, nil when none is present.
	Human *table.PlayerView

	// YourTurn is true when the human seat still owes an action this phase.
	YourTurn bool

	HandOver bool
	Winner   string
}

// View snapshots the current state for the presentation layer.
func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.snap == nil {
		return View{}
	}

	v := View{
		Active:     true,
		Phase:      o.snap.Phase,
		Board:      append([]table.Card(nil), o.snap.CommunityCards...),
		Seats:      append([]table.PlayerView(nil), o.snap.Players...),
		Pot:        o.snap.CurrentPot,
		CurrentBet: o.snap.CurrentBet,
		HandOver:   o.handOver,
		Winner:     o.winner,
	}

	if seat, ok := table.HumanSeat(o.snap.Players); ok {
		human := seat
		v.Human = &human
		v.YourTurn = !o.handOver && seat.Eligible() && !o.tracker.Acted(seat.ID)
	}

	return v
}
