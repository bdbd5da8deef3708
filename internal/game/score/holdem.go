package score

import (
	"github.com/paulhankin/poker"

	"DuelPoker/internal/game/deck"
)

// Holdem evaluates the best 5-card poker hand out of the 7 cards a
// participant holds at showdown (2 hole + 5 community).
type Holdem struct{}

func (Holdem) Score(hole, community []deck.Card) int {
	if len(hole)+len(community) != 7 {
		// only full showdown hands are evaluable; fall back so a
		// misconfigured call still yields a comparable value
		return RankSum{}.Score(hole, community)
	}

	var hand [7]poker.Card
	i := 0
	for _, c := range append(append([]deck.Card{}, hole...), community...) {
		pc, err := poker.MakeCard(poker.Suit(c.Suit), poker.Rank(evalRank(c.Rank)))
		if err != nil {
			return RankSum{}.Score(hole, community)
		}
		hand[i] = pc
		i++
	}
	return int(poker.Eval7(&hand))
}

// evalRank converts our ace-high rank (2-14) to the evaluator's 1-13 range.
func evalRank(rank int) int {
	if rank == 14 {
		return 1
	}
	return rank
}
