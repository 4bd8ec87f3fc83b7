package table

// Card is a single community or hole card as the server describes it.
// The orchestrator never interprets cards; they exist only to be rendered.
type Card struct {
	Suit  string `json:"suit"`
	Value string `json:"value"`
}

var cardRanks = map[string]string{
	"TWO":   "2",
	"THREE": "3",
	"FOUR":  "4",
	"FIVE":  "5",
	"SIX":   "6",
	"SEVEN": "7",
	"EIGHT": "8",
	"NINE":  "9",
	"TEN":   "10",
	"JACK":  "J",
	"QUEEN": "Q",
	"KING":  "K",
	"ACE":   "A",
}

var cardSuits = map[string]string{
	"HEARTS":   "♥",
	"DIAMONDS": "♦",
	"CLUBS":    "♣",
	"SPADES":   "♠",
}

// String renders the card in short form, e.g. "A♠".
func (c Card) String() string {
	rank, ok := cardRanks[c.Value]
	if !ok {
		rank = c.Value
	}
	suit, ok := cardSuits[c.Suit]
	if !ok {
		suit = c.Suit
	}
	return rank + suit
}

// Red reports whether the card renders in a red suit.
func (c Card) Red() bool {
	return c.Suit == "HEARTS" || c.Suit == "DIAMONDS"
}
