package main

import (
	"github.com/lox/holdemtable/internal/api"
	"github.com/lox/holdemtable/internal/config"
)

// buildRoster assembles the starting roster from the configuration:
// automated seats first, the human seat last.
func buildRoster(cfg *config.Config) []api.PlayerInfo {
	roster := make([]api.PlayerInfo, 0, len(cfg.Player.Bots)+1)
	for _, bot := range cfg.Player.Bots {
		roster = append(roster, api.PlayerInfo{
			Name:          bot.Name,
			StartingChips: bot.StartingChips,
			IsBot:         true,
		})
	}
	roster = append(roster, api.PlayerInfo{
		Name:          cfg.Player.Name,
		StartingChips: cfg.Player.StartingChips,
	})
	return roster
}
