package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"DuelPoker/internal/game/registry"
	"DuelPoker/internal/game/room"
	"DuelPoker/internal/game/round"
	"DuelPoker/internal/stats"
	"DuelPoker/internal/utils"
	ws "DuelPoker/internal/websocket"
)

// LobbyNotifier keeps the open-room directory in sync with room lifecycle.
type LobbyNotifier interface {
	RoomOpened(ctx context.Context, roomID, host string) error
	RoomFilled(ctx context.Context, roomID string) error
	RoomClosed(ctx context.Context, roomID string) error
}

type event struct {
	msg        *ws.IncomingMessage
	disconnect string // identity, when the event is a connection loss
}

// Dispatcher translates inbound connection events into room operations and
// fans the resulting snapshots back out. Events drain through a single
// mailbox, so every room sees its operations in receipt order.
type Dispatcher struct {
	hub      ws.HubInterface
	registry *registry.Registry
	lobby    LobbyNotifier // may be nil
	stats    stats.Recorder

	events chan event

	mu         sync.RWMutex
	playerRoom map[string]string // identity -> roomID
}

func New(hub ws.HubInterface, reg *registry.Registry, lb LobbyNotifier, rec stats.Recorder) *Dispatcher {
	if rec == nil {
		rec = stats.Noop{}
	}
	return &Dispatcher{
		hub:        hub,
		registry:   reg,
		lobby:      lb,
		stats:      rec,
		events:     make(chan event, 256),
		playerRoom: make(map[string]string),
	}
}

// Enqueue hands an inbound message to the dispatch loop. Wire as Hub.OnIncoming.
func (d *Dispatcher) Enqueue(msg ws.IncomingMessage) {
	d.events <- event{msg: &msg}
}

// Disconnected reports a dropped connection. Wire as Hub.OnDisconnect.
func (d *Dispatcher) Disconnected(identity string) {
	d.events <- event{disconnect: identity}
}

// Run drains the mailbox until Stop.
func (d *Dispatcher) Run() {
	for e := range d.events {
		if e.disconnect != "" {
			d.handleLeave(e.disconnect)
			continue
		}
		d.handleMessage(*e.msg)
	}
}

func (d *Dispatcher) Stop() {
	close(d.events)
}

func (d *Dispatcher) handleMessage(msg ws.IncomingMessage) {
	switch msg.Event {
	case ws.EventJoinRoom:
		var p ws.JoinRoomPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil || p.RoomID == "" || p.Username == "" {
			d.reject(msg.From, p.RoomID, "malformed join")
			return
		}
		d.handleJoin(msg.From, p)

	case ws.EventAction:
		var p ws.ActionPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			d.reject(msg.From, p.RoomID, "malformed action")
			return
		}
		d.handleAction(msg.From, p)

	case ws.EventChat:
		var p ws.ChatPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			d.reject(msg.From, p.RoomID, "malformed chat")
			return
		}
		d.handleChat(msg.From, p)

	case ws.EventVoteRematch:
		var p ws.VoteRematchPayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			d.reject(msg.From, p.RoomID, "malformed vote")
			return
		}
		d.handleVote(msg.From, p)

	default:
		d.reject(msg.From, "", "unknown event")
	}
}

func (d *Dispatcher) handleJoin(identity string, p ws.JoinRoomPayload) {
	d.mu.RLock()
	current, inRoom := d.playerRoom[identity]
	d.mu.RUnlock()
	if inRoom && current != p.RoomID {
		d.reject(identity, p.RoomID, "already in a room")
		return
	}

	r, created := d.registry.GetOrCreate(p.RoomID)
	res, err := r.Join(identity, p.Username)
	if err != nil {
		if created {
			d.registry.Remove(p.RoomID)
		}
		d.reject(identity, p.RoomID, reasonFor(err))
		return
	}

	d.mu.Lock()
	d.playerRoom[identity] = p.RoomID
	d.mu.Unlock()

	if d.lobby != nil {
		ctx := context.Background()
		switch res.ParticipantCount {
		case 1:
			if err := d.lobby.RoomOpened(ctx, p.RoomID, p.Username); err != nil {
				utils.Log.Warn("lobby add failed", "room", p.RoomID, "err", err)
			}
		case room.Capacity:
			if err := d.lobby.RoomFilled(ctx, p.RoomID); err != nil {
				utils.Log.Warn("lobby remove failed", "room", p.RoomID, "err", err)
			}
		}
	}

	utils.Log.Info("player joined", "room", p.RoomID, "username", p.Username, "slot", res.Slot)
	d.broadcast(r)
}

func (d *Dispatcher) handleAction(identity string, p ws.ActionPayload) {
	r, ok := d.registry.Get(p.RoomID)
	if !ok {
		d.reject(identity, p.RoomID, "unknown room")
		return
	}
	act, err := round.ParseAction(p.Type)
	if err != nil {
		d.reject(identity, p.RoomID, reasonFor(err))
		return
	}

	res, err := r.Act(identity, act)
	if err != nil {
		if errors.Is(err, round.ErrInsufficientCards) {
			utils.Log.Error("deck accounting violated, round abandoned", "room", p.RoomID)
			d.abandonRound(r, p.RoomID)
			return
		}
		d.reject(identity, p.RoomID, reasonFor(err))
		return
	}

	d.broadcast(r)

	if res.RoundOver && res.Outcome != nil {
		d.recordRound(r, res.Outcome)
	}
}

func (d *Dispatcher) handleChat(identity string, p ws.ChatPayload) {
	r, ok := d.registry.Get(p.RoomID)
	if !ok {
		d.reject(identity, p.RoomID, "unknown room")
		return
	}
	if err := r.Chat(identity, p.Text); err != nil {
		d.reject(identity, p.RoomID, reasonFor(err))
		return
	}
	d.broadcast(r)
}

func (d *Dispatcher) handleVote(identity string, p ws.VoteRematchPayload) {
	r, ok := d.registry.Get(p.RoomID)
	if !ok {
		d.reject(identity, p.RoomID, "unknown room")
		return
	}
	started, err := r.VoteRematch(identity)
	if err != nil {
		d.reject(identity, p.RoomID, reasonFor(err))
		return
	}
	if started {
		utils.Log.Info("rematch started", "room", p.RoomID)
	}
	d.broadcast(r)
}

func (d *Dispatcher) handleLeave(identity string) {
	d.mu.Lock()
	roomID, ok := d.playerRoom[identity]
	delete(d.playerRoom, identity)
	d.mu.Unlock()
	if !ok {
		return
	}

	r, ok := d.registry.Get(roomID)
	if !ok {
		return
	}

	if empty := r.Leave(identity); empty {
		d.registry.Remove(roomID)
		if d.lobby != nil {
			if err := d.lobby.RoomClosed(context.Background(), roomID); err != nil {
				utils.Log.Warn("lobby remove failed", "room", roomID, "err", err)
			}
		}
		utils.Log.Info("room destroyed", "room", roomID)
		return
	}

	utils.Log.Info("player left, session terminated", "room", roomID)
	d.broadcast(r)
}

// broadcast sends each connected participant their own view of the room.
// Snapshots are personalized, so this is a send per participant rather than
// one shared payload.
func (d *Dispatcher) broadcast(r *room.Room) {
	for _, identity := range r.Participants() {
		d.hub.SendToPlayer(identity, ws.OutgoingMessage{
			Event: ws.EventState,
			Data:  r.Snapshot(identity),
		})
	}
}

// abandonRound makes a deck-exhausted round visible to both players instead
// of stalling: one shared notice, then each participant's updated view.
func (d *Dispatcher) abandonRound(r *room.Room, roomID string) {
	d.hub.BroadcastToPlayers(r.Participants(), ws.OutgoingMessage{
		Event: ws.EventRejected,
		Data:  ws.RejectedPayload{RoomID: roomID, Reason: "round abandoned: the deck ran out of cards"},
	})
	d.broadcast(r)
}

func (d *Dispatcher) reject(identity, roomID, reason string) {
	d.hub.SendToPlayer(identity, ws.OutgoingMessage{
		Event: ws.EventRejected,
		Data:  ws.RejectedPayload{RoomID: roomID, Reason: reason},
	})
}

func (d *Dispatcher) recordRound(r *room.Room, o *round.Outcome) {
	result := stats.RoundResult{
		RoomID:  r.ID(),
		Result:  o.Result,
		Winners: r.WinnerNames(),
		EndedAt: time.Now(),
	}
	if err := d.stats.RecordRound(context.Background(), result); err != nil {
		utils.Log.Warn("round result not recorded", "room", r.ID(), "err", err)
	}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomFull):
		return "room is full"
	case errors.Is(err, room.ErrNotYourTurn):
		return "It's not your turn!"
	case errors.Is(err, round.ErrRoundOver):
		return "round already over"
	case errors.Is(err, room.ErrUnknownParticipant):
		return "unknown participant"
	case errors.Is(err, room.ErrNoActiveRound):
		return "no active round"
	case errors.Is(err, room.ErrRoundNotOver):
		return "round is not over yet"
	case errors.Is(err, room.ErrTerminated):
		return "session terminated"
	case errors.Is(err, round.ErrUnknownAction):
		return "unknown action"
	}
	return err.Error()
}
