package table

// Pot derives the total pot from the seats' bet amounts. The server reports
// its own pot figure but the two can diverge across phase transitions, so
// the derived sum is authoritative for display. Pure and idempotent;
// callers recompute after every mutation rather than caching.
func Pot(players []PlayerView) int {
	total := 0
	for _, p := range players {
		total += p.BetAmount
	}
	return total
}
