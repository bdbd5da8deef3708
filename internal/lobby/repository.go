package lobby

import "context"

// Repo abstracts the open-room directory.
type Repo interface {
	// Add lists a room as open. TTL guards against leaked entries if the
	// process loses track of a room.
	Add(ctx context.Context, r OpenRoom, ttlSeconds int) error
	// Remove delists a room (filled or destroyed). Removing an unknown
	// room is not an error.
	Remove(ctx context.Context, roomID string) error
	// List returns the open rooms, oldest first.
	List(ctx context.Context) ([]OpenRoom, error)
	// Count returns the number of open rooms.
	Count(ctx context.Context) (int64, error)
}
