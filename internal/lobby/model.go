package lobby

import "time"

// OpenRoom is a room with a single participant still waiting for an
// opponent. Entries exist only while the room is joinable.
type OpenRoom struct {
	ID        string    `json:"roomId"`
	Host      string    `json:"host"` // display name of the first joiner
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse is the GET /rooms body.
type ListResponse struct {
	Rooms []OpenRoom `json:"rooms"`
}
