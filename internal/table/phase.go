package table

import (
	"encoding/json"
	"fmt"
)

// Phase is one of the five ordered stages of a hand. Phases are monotonic
// within a hand; Showdown is terminal until a new hand is started.
type Phase int

const (
	PreFlop Phase = iota
	Flop
	Turn
	River
	Showdown
)

var phaseNames = map[Phase]string{
	PreFlop:  "PRE_FLOP",
	Flop:     "FLOP",
	Turn:     "TURN",
	River:    "RIVER",
	Showdown: "SHOWDOWN",
}

// String returns the wire name of the phase.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Next returns the phase that follows p. Showdown has no successor and
// returns itself.
func (p Phase) Next() Phase {
	if p >= Showdown {
		return Showdown
	}
	return p + 1
}

// Terminal reports whether the hand is over at this phase.
func (p Phase) Terminal() bool {
	return p >= Showdown
}

// BoardSize returns the number of community cards expected at this phase.
func (p Phase) BoardSize() int {
	switch p {
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Showdown:
		return 5
	default:
		return 0
	}
}

// ParsePhase converts a wire name into a Phase.
func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if name == s {
			return p, nil
		}
	}
	return PreFlop, fmt.Errorf("unknown phase %q", s)
}

// MarshalJSON encodes the phase using its wire name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a phase from its wire name.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePhase(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
