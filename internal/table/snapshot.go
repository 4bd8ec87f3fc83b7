package table

// PlayerView is one seat as reported by the server.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Chips     int    `json:"chips"`
	BetAmount int    `json:"betAmount"`
	Folded    bool   `json:"folded"`
	Hand      []Card `json:"hand,omitempty"`

	// Bot is the explicit role flag. Older server builds omit it and rely
	// on the seat name convention instead; see IsBot.
	Bot *bool `json:"isBot,omitempty"`
}

// AllIn reports whether the seat has no chips behind.
func (p PlayerView) AllIn() bool {
	return p.Chips == 0
}

// Eligible reports whether the seat is still required to act this phase.
// Folded and all-in seats owe no further action.
func (p PlayerView) Eligible() bool {
	return !p.Folded && p.Chips > 0
}

// Snapshot is one fetched view of server-authoritative game state. It is
// replaced wholesale on every fetch and never merged field-by-field.
type Snapshot struct {
	Phase          Phase           `json:"phase"`
	Players        []PlayerView    `json:"players"`
	CommunityCards []Card          `json:"communityCards"`
	CurrentPot     int             `json:"currentPot"`
	CurrentBet     int             `json:"currentBet"`
	PlayerActions  map[string]bool `json:"playerActions,omitempty"`
}

// HighestBet returns the largest bet among non-folded seats. This is the
// amount a check must match; the server's currentBet field is advisory.
func HighestBet(players []PlayerView) int {
	highest := 0
	for _, p := range players {
		if p.Folded {
			continue
		}
		if p.BetAmount > highest {
			highest = p.BetAmount
		}
	}
	return highest
}

// Player returns the seat with the given id.
func (s *Snapshot) Player(id string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}
