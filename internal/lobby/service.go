package lobby

import (
	"context"
	"time"
)

// Service keeps the open-room directory in step with room lifecycle events
// coming from the dispatcher.
type Service struct {
	repo Repo
	ttl  int // seconds an open room stays listed
}

func NewService(repo Repo, ttlSeconds int) *Service {
	return &Service{repo: repo, ttl: ttlSeconds}
}

// RoomOpened lists a room whose first participant is waiting for an opponent.
func (s *Service) RoomOpened(ctx context.Context, roomID, host string) error {
	return s.repo.Add(ctx, OpenRoom{
		ID:        roomID,
		Host:      host,
		CreatedAt: time.Now(),
	}, s.ttl)
}

// RoomFilled delists a room the moment its second participant joins.
func (s *Service) RoomFilled(ctx context.Context, roomID string) error {
	return s.repo.Remove(ctx, roomID)
}

// RoomClosed delists a destroyed room.
func (s *Service) RoomClosed(ctx context.Context, roomID string) error {
	return s.repo.Remove(ctx, roomID)
}

func (s *Service) List(ctx context.Context) ([]OpenRoom, error) {
	return s.repo.List(ctx)
}
