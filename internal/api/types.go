package api

// PlayerInfo is one roster entry for starting a new game.
type PlayerInfo struct {
	Name          string `json:"name"`
	StartingChips int    `json:"startingChips"`
	IsBot         bool   `json:"isBot"`
}

// actionRequest is the body for fold/check/bet calls.
type actionRequest struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount,omitempty"`
}

// resetRequest is the body for reset calls.
type resetRequest struct {
	KeepPlayers bool `json:"keepPlayers"`
}

// botActionResponse is the acknowledgment for a driven bot turn.
type botActionResponse struct {
	Message string `json:"message"`
}
