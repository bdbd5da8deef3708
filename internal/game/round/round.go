package round

import (
	"errors"

	"DuelPoker/internal/game/deck"
	"DuelPoker/internal/game/score"
)

// Slots is the number of participant hands per round. The house hand is
// dealt and scored on top of these.
const Slots = 2

// HouseSlot identifies the house hand in Outcome.Winners and Outcome.Scores.
const HouseSlot = Slots

const holeCardsPerSlot = 2

var (
	ErrInsufficientCards = errors.New("insufficient cards in deck")
	ErrRoundOver         = errors.New("round already over")
	ErrUnknownAction     = errors.New("unknown action")
)

// Phase is the round's progress marker. It only ever moves forward within a
// round.
type Phase int

const (
	Preflop Phase = iota
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	switch p {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	}
	return "unknown"
}

type Action int

const (
	Fold Action = iota
	Call
	Raise
)

// ParseAction maps a wire action type to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	}
	return 0, ErrUnknownAction
}

const (
	ResultFolded   = "folded"
	ResultShowdown = "showdown"
)

// Outcome is present once a fold or showdown resolves the round.
type Outcome struct {
	Result   string `json:"result"`
	FoldedBy int    `json:"foldedBy"` // acting slot, -1 unless folded
	Winners  []int  `json:"winners"`  // winning slots; HouseSlot is the house
	Scores   []int  `json:"scores,omitempty"`
}

// State holds everything a single round owns. Transitions return a new value
// and never mutate their input, so a snapshot handed out earlier stays
// valid.
type State struct {
	Phase     Phase
	Deck      []deck.Card
	Hole      [Slots][]deck.Card
	House     []deck.Card
	Community []deck.Card
	RoundOver bool
	Outcome   *Outcome
}

// Deal consumes two hole cards per slot plus two house cards off the top of
// cards and keeps the remainder as the round's deck. A fresh 52-card deck can
// never fail this; ErrInsufficientCards indicates a coordination bug
// upstream.
func Deal(cards []deck.Card) (State, error) {
	need := Slots*holeCardsPerSlot + holeCardsPerSlot
	if len(cards) < need {
		return State{}, ErrInsufficientCards
	}

	s := State{Phase: Preflop}
	s.Hole[0] = clone(cards[0:2])
	s.Hole[1] = clone(cards[2:4])
	s.House = clone(cards[4:6])
	s.Deck = clone(cards[6:])
	s.Community = make([]deck.Card, 0, 5)
	return s, nil
}

// Advance applies one accepted action from slot and returns the resulting
// state. Fold ends the round immediately; call and raise reveal community
// cards (3, then 1, then 1) and trigger the showdown after the river. Any
// action once the round is over is rejected without a state change.
func Advance(s State, slot int, a Action, sc score.Scorer) (State, error) {
	if s.RoundOver {
		return s, ErrRoundOver
	}

	switch a {
	case Fold:
		s.Outcome = &Outcome{
			Result:   ResultFolded,
			FoldedBy: slot,
			Winners:  []int{opponentOf(slot)},
		}
		s.RoundOver = true
		return s, nil
	case Call, Raise:
		// both reveal the next street, no bet sizing is modeled
	default:
		return s, ErrUnknownAction
	}

	switch s.Phase {
	case Preflop:
		return reveal(s, 3, Flop)
	case Flop:
		return reveal(s, 1, Turn)
	case Turn:
		return reveal(s, 1, River)
	case River:
		return showdown(s, sc), nil
	}
	return s, nil
}

func reveal(s State, n int, next Phase) (State, error) {
	if len(s.Deck) < n {
		return s, ErrInsufficientCards
	}
	s.Community = append(clone(s.Community), s.Deck[:n]...)
	s.Deck = clone(s.Deck[n:])
	s.Phase = next
	return s, nil
}

// showdown scores both slots and the house against the community cards. The
// maximum score wins; strict ties share the win. It only fills Outcome,
// hands and deck are untouched.
func showdown(s State, sc score.Scorer) State {
	scores := make([]int, Slots+1)
	for slot := 0; slot < Slots; slot++ {
		scores[slot] = sc.Score(s.Hole[slot], s.Community)
	}
	scores[HouseSlot] = sc.Score(s.House, s.Community)

	best := scores[0]
	for _, v := range scores[1:] {
		if v > best {
			best = v
		}
	}
	winners := make([]int, 0, Slots+1)
	for slot, v := range scores {
		if v == best {
			winners = append(winners, slot)
		}
	}

	s.Outcome = &Outcome{
		Result:   ResultShowdown,
		FoldedBy: -1,
		Winners:  winners,
		Scores:   scores,
	}
	s.Phase = Showdown
	s.RoundOver = true
	return s
}

func opponentOf(slot int) int {
	return (slot + 1) % Slots
}

func clone(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}
