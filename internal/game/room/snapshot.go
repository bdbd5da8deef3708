package room

import (
	"fmt"
	"sort"
	"strings"

	"DuelPoker/internal/game/deck"
	"DuelPoker/internal/game/round"
)

// Snapshot is the externally visible state of a room, personalized for one
// viewer: until the showdown discloses every hand, a participant only ever
// sees their own hole cards.
type Snapshot struct {
	RoomID         string            `json:"roomId"`
	Phase          string            `json:"phase,omitempty"`
	Turn           int               `json:"currentTurn"`
	YourSlot       int               `json:"yourSlot"`
	YourHoleCards  []deck.Card       `json:"yourHoleCards,omitempty"`
	HoleCards      [][]deck.Card     `json:"holeCards,omitempty"` // all hands, showdown only
	HouseCards     []deck.Card       `json:"houseCards,omitempty"`
	CommunityCards []deck.Card       `json:"communityCards"`
	Participants   []string          `json:"participants"`
	Usernames      map[string]string `json:"usernames"`
	ChatLog        []ChatMessage     `json:"messages"`
	RematchVotes   []string          `json:"rematchVotes"`
	Outcome        *round.Outcome    `json:"outcome,omitempty"`
	Message        string            `json:"message"`
	RoundOver      bool              `json:"roundOver"`
	Terminated     bool              `json:"terminated"`
}

// Snapshot renders the room for viewer. All slices are copies, so a snapshot
// already handed to the transport never changes under a later mutation.
func (r *Room) Snapshot(viewer string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	participants := make([]string, 0, len(r.participants))
	for _, id := range r.participants {
		if id != "" {
			participants = append(participants, id)
		}
	}

	snap := Snapshot{
		RoomID:       r.id,
		Turn:         r.turn,
		YourSlot:     r.slotOf(viewer),
		Participants: participants,
		Usernames:    make(map[string]string, len(r.usernames)),
		ChatLog:      append([]ChatMessage(nil), r.chatLog...),
		RematchVotes: make([]string, 0, len(r.rematchVotes)),
		Terminated:   r.terminated,
	}
	for id, name := range r.usernames {
		snap.Usernames[id] = name
	}
	for id := range r.rematchVotes {
		snap.RematchVotes = append(snap.RematchVotes, id)
	}
	sort.Strings(snap.RematchVotes)

	if r.state == nil {
		snap.CommunityCards = []deck.Card{}
		snap.Message = "Waiting for another player to join..."
		return snap
	}

	s := r.state
	snap.Phase = s.Phase.String()
	snap.CommunityCards = append([]deck.Card(nil), s.Community...)
	snap.RoundOver = s.RoundOver
	snap.Outcome = s.Outcome

	if slot := snap.YourSlot; slot >= 0 && slot < round.Slots {
		snap.YourHoleCards = append([]deck.Card(nil), s.Hole[slot]...)
	}

	// the showdown discloses every hand; a fold or a termination does not
	if s.Outcome != nil && s.Outcome.Result == round.ResultShowdown && !r.terminated {
		snap.HoleCards = make([][]deck.Card, round.Slots)
		for slot := 0; slot < round.Slots; slot++ {
			snap.HoleCards[slot] = append([]deck.Card(nil), s.Hole[slot]...)
		}
		snap.HouseCards = append([]deck.Card(nil), s.House...)
	}

	snap.Message = r.displayMessageLocked()
	return snap
}

// WinnerNames resolves the current outcome's winners to display names.
// Returns nil while no round has resolved.
func (r *Room) WinnerNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil || r.state.Outcome == nil {
		return nil
	}
	names := make([]string, 0, len(r.state.Outcome.Winners))
	for _, w := range r.state.Outcome.Winners {
		names = append(names, r.nameOfLocked(w))
	}
	return names
}

func (r *Room) displayMessageLocked() string {
	if r.terminated {
		return terminatedMessage
	}
	if o := r.state.Outcome; o != nil {
		return r.formatOutcomeLocked(o)
	}
	// over with no outcome means the deck ran out mid-round
	if r.state.RoundOver {
		return "Round abandoned: the deck ran out of cards."
	}
	switch r.state.Phase {
	case round.Flop:
		return "Flop revealed"
	case round.Turn:
		return "Turn card revealed"
	case round.River:
		return "River card revealed"
	}
	return ""
}

func (r *Room) formatOutcomeLocked(o *round.Outcome) string {
	if o.Result == round.ResultFolded {
		return fmt.Sprintf("%s folded. %s wins!",
			r.nameOfLocked(o.FoldedBy), r.nameOfLocked(o.Winners[0]))
	}

	parts := make([]string, 0, len(o.Scores))
	for slot, v := range o.Scores {
		parts = append(parts, fmt.Sprintf("%s: %d", r.nameOfLocked(slot), v))
	}
	msg := strings.Join(parts, ", ") + ". "

	winners := make([]string, 0, len(o.Winners))
	for _, w := range o.Winners {
		winners = append(winners, r.nameOfLocked(w))
	}
	if len(winners) > 1 {
		return msg + "It's a tie between: " + strings.Join(winners, " and ")
	}
	return msg + winners[0] + " wins!"
}

func (r *Room) nameOfLocked(slot int) string {
	if slot == round.HouseSlot {
		return "House"
	}
	if slot >= 0 && slot < len(r.participants) {
		if name, ok := r.usernames[r.participants[slot]]; ok {
			return name
		}
	}
	return fmt.Sprintf("Player %d", slot+1)
}
