package room

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DuelPoker/internal/game/deck"
	"DuelPoker/internal/game/round"
	"DuelPoker/internal/game/score"
)

func newTestRoom(id string, seed int64) *Room {
	r := New(id, score.RankSum{})
	r.shuffle = func() []deck.Card { return deck.Shuffle(deck.New(), seed) }
	return r
}

func joinBoth(t *testing.T, r *Room) {
	t.Helper()
	res, err := r.Join("id-a", "Alice")
	require.NoError(t, err)
	require.Equal(t, 0, res.Slot)
	require.Equal(t, 1, res.ParticipantCount)

	res, err = r.Join("id-b", "Bob")
	require.NoError(t, err)
	require.Equal(t, 1, res.Slot)
	require.Equal(t, 2, res.ParticipantCount)
}

func TestJoinAloneHasNoRound(t *testing.T) {
	r := newTestRoom("R2", 1)
	res, err := r.Join("id-a", "Alice")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Slot)
	assert.Equal(t, 1, res.ParticipantCount)

	snap := r.Snapshot("id-a")
	assert.Empty(t, snap.Phase)
	assert.False(t, snap.RoundOver)
	assert.Contains(t, snap.Message, "Waiting")

	// no round yet, so no action can be accepted
	_, err = r.Act("id-a", round.Call)
	assert.ErrorIs(t, err, ErrNoActiveRound)
}

func TestSecondJoinDealsImmediately(t *testing.T) {
	r := newTestRoom("R1", 42)
	joinBoth(t, r)

	snapA := r.Snapshot("id-a")
	assert.Equal(t, "preflop", snapA.Phase)
	assert.Equal(t, 0, snapA.Turn)
	assert.Len(t, snapA.YourHoleCards, 2)
	assert.Empty(t, snapA.CommunityCards)
	assert.Nil(t, snapA.HoleCards, "opponent hands stay hidden before showdown")
}

func TestJoinFull(t *testing.T) {
	r := newTestRoom("R1", 1)
	joinBoth(t, r)

	_, err := r.Join("id-c", "Carol")
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Len(t, r.Participants(), 2)
}

func TestJoinSameIdentityKeepsSlot(t *testing.T) {
	r := newTestRoom("R1", 1)
	res, err := r.Join("id-a", "Alice")
	require.NoError(t, err)
	again, err := r.Join("id-a", "Alice")
	require.NoError(t, err)
	assert.Equal(t, res.Slot, again.Slot)
	assert.Equal(t, 1, again.ParticipantCount)
}

// Mirrors the full session: A calls -> flop, B calls -> turn, A folds ->
// round over with B the winner and the turn frozen, both vote -> new round.
func TestSessionScenario(t *testing.T) {
	r := newTestRoom("R1", 42)
	joinBoth(t, r)

	res, err := r.Act("id-a", round.Call)
	require.NoError(t, err)
	assert.False(t, res.RoundOver)
	snap := r.Snapshot("id-a")
	assert.Equal(t, "flop", snap.Phase)
	assert.Equal(t, 1, snap.Turn)

	res, err = r.Act("id-b", round.Call)
	require.NoError(t, err)
	snap = r.Snapshot("id-b")
	assert.Equal(t, "turn", snap.Phase)
	assert.Equal(t, 0, snap.Turn)

	res, err = r.Act("id-a", round.Fold)
	require.NoError(t, err)
	assert.True(t, res.RoundOver)
	require.NotNil(t, res.Outcome)
	assert.Equal(t, 0, res.Outcome.FoldedBy)
	assert.Equal(t, []string{"Bob"}, r.WinnerNames())

	snap = r.Snapshot("id-a")
	assert.Equal(t, 0, snap.Turn, "turn frozen once the round is over")
	assert.Contains(t, snap.Message, "Alice folded")
	assert.Contains(t, snap.Message, "Bob wins")
	assert.Nil(t, snap.HoleCards, "a fold discloses no hands")

	// further actions rejected until the rematch
	_, err = r.Act("id-b", round.Call)
	assert.ErrorIs(t, err, round.ErrRoundOver)

	started, err := r.VoteRematch("id-a")
	require.NoError(t, err)
	assert.False(t, started)
	started, err = r.VoteRematch("id-b")
	require.NoError(t, err)
	assert.True(t, started)

	snap = r.Snapshot("id-a")
	assert.Equal(t, "preflop", snap.Phase)
	assert.Equal(t, 0, snap.Turn)
	assert.False(t, snap.RoundOver)
	assert.Empty(t, snap.RematchVotes, "votes clear the instant a round starts")
}

func TestShowdownDisclosesHands(t *testing.T) {
	r := newTestRoom("R1", 7)
	joinBoth(t, r)

	actors := []string{"id-a", "id-b", "id-a", "id-b"}
	for _, id := range actors {
		_, err := r.Act(id, round.Call)
		require.NoError(t, err)
	}

	snap := r.Snapshot("id-a")
	assert.Equal(t, "showdown", snap.Phase)
	assert.True(t, snap.RoundOver)
	require.NotNil(t, snap.Outcome)
	assert.Len(t, snap.HoleCards, 2, "showdown reveals both hands")
	assert.Len(t, snap.HouseCards, 2)
	assert.Len(t, snap.CommunityCards, 5)
	assert.NotEmpty(t, r.WinnerNames())
}

func TestActOutOfTurn(t *testing.T) {
	r := newTestRoom("R1", 3)
	joinBoth(t, r)

	_, err := r.Act("id-b", round.Call)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	snap := r.Snapshot("id-b")
	assert.Equal(t, 0, snap.Turn, "a rejected action never moves the turn")
	assert.Equal(t, "preflop", snap.Phase)
}

func TestActUnknownIdentity(t *testing.T) {
	r := newTestRoom("R1", 3)
	joinBoth(t, r)

	_, err := r.Act("id-x", round.Call)
	assert.ErrorIs(t, err, ErrUnknownParticipant)
}

// Two participants race to fold the same turn: folding freezes the turn, so
// exactly one action is ever accepted, under any interleaving.
func TestConcurrentFoldsExactlyOneAccepted(t *testing.T) {
	for i := 0; i < 50; i++ {
		r := newTestRoom("R1", int64(i))
		joinBoth(t, r)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j, id := range []string{"id-a", "id-b"} {
			wg.Add(1)
			go func(j int, id string) {
				defer wg.Done()
				_, errs[j] = r.Act(id, round.Fold)
			}(j, id)
		}
		wg.Wait()

		accepted := 0
		for _, err := range errs {
			if err == nil {
				accepted++
			} else if !errors.Is(err, ErrNotYourTurn) && !errors.Is(err, round.ErrRoundOver) {
				// the loser raced either the turn check or the round end
				t.Fatalf("unexpected rejection: %v", err)
			}
		}
		assert.Equal(t, 1, accepted, "exactly one of two racing actions may win the turn")
	}
}

// Two racing calls must observe a consistent serialization: either only the
// turn holder got through (one street dealt) or both actions applied in
// order (two streets dealt). Never a torn in-between.
func TestConcurrentCallsSerialize(t *testing.T) {
	for i := 0; i < 50; i++ {
		r := newTestRoom("R1", int64(i))
		joinBoth(t, r)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j, id := range []string{"id-a", "id-b"} {
			wg.Add(1)
			go func(j int, id string) {
				defer wg.Done()
				_, errs[j] = r.Act(id, round.Call)
			}(j, id)
		}
		wg.Wait()

		snap := r.Snapshot("id-a")
		switch {
		case errs[0] == nil && errs[1] == nil:
			assert.Equal(t, "turn", snap.Phase)
			assert.Equal(t, 0, snap.Turn)
		case errs[0] == nil:
			assert.ErrorIs(t, errs[1], ErrNotYourTurn)
			assert.Equal(t, "flop", snap.Phase)
			assert.Equal(t, 1, snap.Turn)
		default:
			t.Fatalf("the turn holder's action must have been accepted: %v", errs[0])
		}
	}
}

func TestRematchVoteIdempotent(t *testing.T) {
	r := newTestRoom("R1", 5)
	joinBoth(t, r)
	_, err := r.Act("id-a", round.Fold)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		started, err := r.VoteRematch("id-a")
		require.NoError(t, err)
		assert.False(t, started, "repeated votes by one identity never start a round")
	}
	snap := r.Snapshot("id-a")
	assert.Equal(t, []string{"id-a"}, snap.RematchVotes)

	started, err := r.VoteRematch("id-b")
	require.NoError(t, err)
	assert.True(t, started)
}

func TestRematchVoteMidRoundRejected(t *testing.T) {
	r := newTestRoom("R1", 5)
	joinBoth(t, r)

	_, err := r.VoteRematch("id-a")
	assert.ErrorIs(t, err, ErrRoundNotOver)
}

func TestChat(t *testing.T) {
	r := newTestRoom("R1", 5)
	joinBoth(t, r)

	require.NoError(t, r.Chat("id-a", "hi"))
	require.NoError(t, r.Chat("id-b", "glhf"))
	assert.ErrorIs(t, r.Chat("id-x", "eavesdropping"), ErrUnknownParticipant)

	snap := r.Snapshot("id-a")
	require.Len(t, snap.ChatLog, 2)
	assert.Equal(t, ChatMessage{Sender: "Alice", Text: "hi"}, snap.ChatLog[0])
	assert.Equal(t, ChatMessage{Sender: "Bob", Text: "glhf"}, snap.ChatLog[1])
	assert.Equal(t, "preflop", snap.Phase, "chat has no effect on game state")
}

func TestLeaveTerminatesForRemaining(t *testing.T) {
	r := newTestRoom("R1", 9)
	joinBoth(t, r)

	empty := r.Leave("id-b")
	assert.False(t, empty)
	assert.True(t, r.Terminated())

	snap := r.Snapshot("id-a")
	assert.True(t, snap.Terminated)
	assert.Contains(t, snap.Message, "disconnected")
	assert.Nil(t, snap.HoleCards, "termination discloses no cards")

	_, err := r.Act("id-a", round.Call)
	assert.ErrorIs(t, err, ErrTerminated)
	_, err = r.VoteRematch("id-a")
	assert.ErrorIs(t, err, ErrTerminated)

	// chat still works for the survivor
	assert.NoError(t, r.Chat("id-a", "gg"))

	// and nobody can join the dead session
	_, err = r.Join("id-c", "Carol")
	assert.ErrorIs(t, err, ErrRoomFull)

	empty = r.Leave("id-a")
	assert.True(t, empty)
}

// The survivor's slot must not shift when the other slot empties: after slot
// 0 leaves, slot 1 still sees their own hole cards, never the leaver's.
func TestLeaveKeepsSurvivorSlotStable(t *testing.T) {
	r := newTestRoom("R1", 9)
	joinBoth(t, r)

	before := r.Snapshot("id-b")
	require.Equal(t, 1, before.YourSlot)
	require.Len(t, before.YourHoleCards, 2)
	leaverCards := r.Snapshot("id-a").YourHoleCards

	empty := r.Leave("id-a")
	require.False(t, empty)
	assert.True(t, r.Terminated())

	after := r.Snapshot("id-b")
	assert.Equal(t, 1, after.YourSlot)
	assert.Equal(t, before.YourHoleCards, after.YourHoleCards)
	assert.NotEqual(t, leaverCards, after.YourHoleCards)
	assert.Nil(t, after.HoleCards, "termination discloses no cards")
	assert.Equal(t, []string{"id-b"}, after.Participants)
}

// Slot names in a resolved outcome stay attributed after the loser leaves.
func TestLeaveKeepsWinnerAttribution(t *testing.T) {
	r := newTestRoom("R1", 9)
	joinBoth(t, r)

	_, err := r.Act("id-a", round.Fold)
	require.NoError(t, err)
	require.Equal(t, []string{"Bob"}, r.WinnerNames())

	r.Leave("id-a")
	assert.Equal(t, []string{"Bob"}, r.WinnerNames())
}

func TestLeaveWhileWaitingDoesNotTerminate(t *testing.T) {
	r := newTestRoom("R1", 9)
	_, err := r.Join("id-a", "Alice")
	require.NoError(t, err)

	empty := r.Leave("id-a")
	assert.True(t, empty)
	assert.False(t, r.Terminated(), "a room that never went active just empties out")
}

// A deck that runs dry mid-round abandons the round with an explicit
// message rather than stalling or producing a corrupted outcome.
func TestDeckExhaustionAbandonsRoundVisibly(t *testing.T) {
	r := newTestRoom("R1", 9)
	// just enough to deal the hands, nothing left for the flop
	r.shuffle = func() []deck.Card { return deck.Shuffle(deck.New(), 9)[:6] }
	joinBoth(t, r)

	_, err := r.Act("id-a", round.Call)
	require.ErrorIs(t, err, round.ErrInsufficientCards)

	snap := r.Snapshot("id-a")
	assert.True(t, snap.RoundOver)
	assert.Nil(t, snap.Outcome)
	assert.Contains(t, snap.Message, "abandoned")

	_, err = r.Act("id-b", round.Call)
	assert.ErrorIs(t, err, round.ErrRoundOver)
}

func TestSnapshotIsolatedFromLaterMutation(t *testing.T) {
	r := newTestRoom("R1", 13)
	joinBoth(t, r)

	before := r.Snapshot("id-a")
	_, err := r.Act("id-a", round.Call)
	require.NoError(t, err)
	require.NoError(t, r.Chat("id-b", "late"))

	assert.Len(t, before.CommunityCards, 0, "earlier snapshot must not change")
	assert.Len(t, before.ChatLog, 0)
}

func TestCardConservationAcrossSession(t *testing.T) {
	r := newTestRoom("R1", 21)
	joinBoth(t, r)

	check := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		total := len(r.state.Deck) + len(r.state.Community) + len(r.state.House)
		for slot := 0; slot < round.Slots; slot++ {
			total += len(r.state.Hole[slot])
		}
		assert.Equal(t, deck.Size, total)
	}

	check()
	for _, id := range []string{"id-a", "id-b", "id-a", "id-b"} {
		_, err := r.Act(id, round.Call)
		require.NoError(t, err)
		check()
	}
}
