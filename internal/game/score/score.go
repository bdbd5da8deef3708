package score

import (
	"DuelPoker/internal/game/deck"
)

// Scorer maps a hand (hole cards plus community cards) to a comparable
// strength value. Higher is better; equal values are a tie.
type Scorer interface {
	Score(hole, community []deck.Card) int
}

// RankSum scores a hand as the sum of its card ranks. This is the default
// placeholder scoring; use Holdem for real hand evaluation.
type RankSum struct{}

func (RankSum) Score(hole, community []deck.Card) int {
	sum := 0
	for _, c := range hole {
		sum += c.Rank
	}
	for _, c := range community {
		sum += c.Rank
	}
	return sum
}

// ByName resolves a scorer from its config name. Unknown names fall back to
// rank-sum.
func ByName(name string) Scorer {
	switch name {
	case "holdem":
		return Holdem{}
	default:
		return RankSum{}
	}
}
