package websocket

import "encoding/json"

// Inbound event kinds.
const (
	EventJoinRoom    = "join_room"
	EventAction      = "action"
	EventChat        = "chat"
	EventVoteRematch = "vote_rematch"
)

// Outbound event kinds.
const (
	EventState    = "state"
	EventRejected = "rejected"
)

type OutgoingMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type IncomingMessage struct {
	From  string          `json:"from"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type ActionPayload struct {
	RoomID string `json:"roomId"`
	Type   string `json:"type"` // fold | call | raise
}

type ChatPayload struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

type VoteRematchPayload struct {
	RoomID string `json:"roomId"`
}

type RejectedPayload struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}
