package lobby

import (
	"context"
	"sort"
	"sync"
)

type memRepo struct {
	mu    sync.Mutex
	rooms map[string]OpenRoom
}

// NewMemoryRepo is the in-process directory, used when no redis is
// configured and in tests.
func NewMemoryRepo() Repo {
	return &memRepo{rooms: make(map[string]OpenRoom)}
}

func (m *memRepo) Add(ctx context.Context, r OpenRoom, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// TTL ignored, the memory directory lives and dies with the process
	m.rooms[r.ID] = r
	return nil
}

func (m *memRepo) Remove(ctx context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
	return nil
}

func (m *memRepo) List(ctx context.Context) ([]OpenRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]OpenRoom, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rooms)), nil
}
