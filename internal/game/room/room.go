package room

import (
	"errors"
	"fmt"
	"sync"

	"DuelPoker/internal/game/deck"
	"DuelPoker/internal/game/round"
	"DuelPoker/internal/game/score"
)

// Capacity is the fixed number of participants per room.
const Capacity = 2

var (
	ErrRoomFull           = errors.New("room is full")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrNoActiveRound      = errors.New("no active round")
	ErrRoundNotOver       = errors.New("round is not over yet")
	ErrTerminated         = errors.New("session terminated")
)

const terminatedMessage = "The other player has disconnected. Game terminated."

type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Room is one two-party game session. Every operation takes the room lock,
// so concurrent calls from both connections serialize; rooms never share
// state with each other.
type Room struct {
	mu sync.Mutex

	id           string
	participants []string // identities in slot order
	usernames    map[string]string
	turn         int
	chatLog      []ChatMessage
	rematchVotes map[string]struct{}
	terminated   bool

	state  *round.State // nil until the second participant joins
	scorer score.Scorer

	// shuffle supplies the next round's deck; tests swap in a seeded one
	shuffle func() []deck.Card
}

func New(id string, sc score.Scorer) *Room {
	return &Room{
		id:           id,
		usernames:    make(map[string]string),
		rematchVotes: make(map[string]struct{}),
		scorer:       sc,
		shuffle:      deck.ShuffleNew,
	}
}

func (r *Room) ID() string {
	return r.id
}

type JoinResult struct {
	Slot             int
	ParticipantCount int
}

// Join assigns the lowest vacant slot. The second join deals the first round
// as part of the same step, so no observer ever sees a full room without an
// active round. A terminated room is no longer joinable.
func (r *Room) Join(identity, username string) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.terminated {
		return JoinResult{}, ErrRoomFull
	}
	for slot, id := range r.participants {
		if id == identity {
			// same identity joining twice keeps its slot
			return JoinResult{Slot: slot, ParticipantCount: r.activeCountLocked()}, nil
		}
	}

	slot := -1
	for i, id := range r.participants {
		if id == "" {
			slot = i
			break
		}
	}
	if slot < 0 {
		if len(r.participants) >= Capacity {
			return JoinResult{}, ErrRoomFull
		}
		r.participants = append(r.participants, identity)
		slot = len(r.participants) - 1
	} else {
		r.participants[slot] = identity
	}
	r.usernames[identity] = username

	if r.activeCountLocked() == Capacity {
		if err := r.dealLocked(); err != nil {
			return JoinResult{}, err
		}
	}

	return JoinResult{
		Slot:             slot,
		ParticipantCount: r.activeCountLocked(),
	}, nil
}

type ActResult struct {
	RoundOver bool
	Outcome   *round.Outcome
}

// Act applies one game action for identity. The acting slot must hold the
// turn; on acceptance the turn passes to the opponent unless the action just
// ended the round, in which case the turn stays frozen until the rematch.
func (r *Room) Act(identity string, a round.Action) (ActResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.slotOf(identity)
	if slot < 0 {
		return ActResult{}, ErrUnknownParticipant
	}
	if r.terminated {
		return ActResult{}, ErrTerminated
	}
	if r.state == nil {
		return ActResult{}, ErrNoActiveRound
	}
	if r.state.RoundOver {
		return ActResult{}, round.ErrRoundOver
	}
	if slot != r.turn {
		return ActResult{}, ErrNotYourTurn
	}

	next, err := round.Advance(*r.state, slot, a, r.scorer)
	if err != nil {
		if errors.Is(err, round.ErrInsufficientCards) {
			// deck accounting is broken, abandon the round visibly
			// rather than producing a corrupted outcome
			r.state.RoundOver = true
		}
		return ActResult{}, err
	}

	r.state = &next
	if !next.RoundOver {
		r.turn = (r.turn + 1) % Capacity
	}
	return ActResult{RoundOver: next.RoundOver, Outcome: next.Outcome}, nil
}

// Chat appends to the room's chat log. It never touches game state and still
// works in a terminated room.
func (r *Room) Chat(identity, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.usernames[identity]
	if !ok {
		return ErrUnknownParticipant
	}
	r.chatLog = append(r.chatLog, ChatMessage{Sender: name, Text: text})
	return nil
}

// VoteRematch records identity's request for a new round. Voting twice has
// no extra effect. The instant every current participant has voted, the
// votes clear and a fresh round deals with the turn back at slot 0.
func (r *Room) VoteRematch(identity string) (started bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotOf(identity) < 0 {
		return false, ErrUnknownParticipant
	}
	if r.terminated {
		return false, ErrTerminated
	}
	if r.state == nil {
		return false, ErrNoActiveRound
	}
	if !r.state.RoundOver {
		return false, ErrRoundNotOver
	}

	r.rematchVotes[identity] = struct{}{}
	if len(r.rematchVotes) < r.activeCountLocked() {
		return false, nil
	}
	if err := r.dealLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// Leave vacates identity's slot. The slot itself stays put: a slot assigned
// at join never shifts for the room's lifetime, so the survivor's hole cards
// stay theirs. Dropping a previously-active room to one participant
// terminates the session for whoever remains; dropping to zero reports the
// room as empty so the caller can destroy it.
func (r *Room) Leave(identity string) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.slotOf(identity)
	if slot < 0 {
		return r.activeCountLocked() == 0
	}
	r.participants[slot] = ""
	delete(r.usernames, identity)
	delete(r.rematchVotes, identity)

	if r.activeCountLocked() == 1 && r.state != nil {
		r.terminated = true
	}
	return r.activeCountLocked() == 0
}

// Participants returns the occupied identities in slot order.
func (r *Room) Participants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.participants))
	for _, id := range r.participants {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (r *Room) Terminated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminated
}

// dealLocked starts a fresh round: new shuffled deck, turn back to slot 0,
// rematch votes cleared. Caller holds the lock.
func (r *Room) dealLocked() error {
	s, err := round.Deal(r.shuffle())
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	r.state = &s
	r.turn = 0
	r.rematchVotes = make(map[string]struct{})
	return nil
}

func (r *Room) activeCountLocked() int {
	n := 0
	for _, id := range r.participants {
		if id != "" {
			n++
		}
	}
	return n
}

func (r *Room) slotOf(identity string) int {
	if identity == "" {
		return -1
	}
	for slot, id := range r.participants {
		if id == identity {
			return slot
		}
	}
	return -1
}
