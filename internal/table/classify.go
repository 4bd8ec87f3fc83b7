package table

import "strings"

// BotNamePrefix is the reserved naming convention for automated seats.
// Older server builds carry no explicit role flag, only this prefix.
const BotNamePrefix = "Bot"

// IsBot reports whether the seat is automated. The explicit flag wins when
// the server sends one; otherwise the name convention decides.
func IsBot(p PlayerView) bool {
	if p.Bot != nil {
		return *p.Bot
	}
	return strings.HasPrefix(p.Name, BotNamePrefix)
}

// Classify partitions seats into automated and human-controlled.
func Classify(players []PlayerView) (bots, humans []PlayerView) {
	for _, p := range players {
		if IsBot(p) {
			bots = append(bots, p)
		} else {
			humans = append(humans, p)
		}
	}
	return bots, humans
}

// Arrange returns the seats in display order: automated seats first,
// human-controlled seats last. The order is re-derived on every snapshot;
// server insertion order carries no meaning.
func Arrange(players []PlayerView) []PlayerView {
	bots, humans := Classify(players)
	out := make([]PlayerView, 0, len(players))
	out = append(out, bots...)
	out = append(out, humans...)
	return out
}

// HumanSeat resolves the single human-controlled seat. Exactly one is
// expected per session; ok is false when none exists.
func HumanSeat(players []PlayerView) (PlayerView, bool) {
	_, humans := Classify(players)
	if len(humans) == 0 {
		return PlayerView{}, false
	}
	return humans[0], true
}
