package deck

import (
	"fmt"
	"math/rand"
	"time"
)

// Size is the number of cards in a full deck.
const Size = 52

// Card (suit 0-3, rank 2-14, ace high)
type Card struct {
	Suit int `json:"suit"`
	Rank int `json:"rank"`
}

func (c Card) String() string {
	suits := []string{"♣", "♦", "♥", "♠"}
	ranks := map[int]string{
		11: "J",
		12: "Q",
		13: "K",
		14: "A",
	}
	rankStr, ok := ranks[c.Rank]
	if !ok {
		rankStr = fmt.Sprintf("%d", c.Rank)
	}
	suitStr := "?"
	if c.Suit >= 0 && c.Suit < len(suits) {
		suitStr = suits[c.Suit]
	}
	return rankStr + suitStr
}

// New returns a full deck in fixed enumeration order (suits 0-3, ranks 2-14).
func New() []Card {
	cards := make([]Card, 0, Size)
	for s := 0; s < 4; s++ {
		for r := 2; r <= 14; r++ {
			cards = append(cards, Card{Suit: s, Rank: r})
		}
	}
	return cards
}

// Shuffle returns a new permutation of cards. The same seed always produces
// the same order.
func Shuffle(cards []Card, seed int64) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// ShuffleNew returns a freshly shuffled full deck.
func ShuffleNew() []Card {
	return Shuffle(New(), time.Now().UnixNano())
}
