package registry

import (
	"sync"

	"DuelPoker/internal/game/room"
	"DuelPoker/internal/game/score"
)

// Registry is the process-wide roomID -> Room mapping. Create and remove are
// atomic, so two near-simultaneous first joins to the same unseen id get the
// same Room and a removal never resurrects a half-removed one.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*room.Room
	scorer score.Scorer
}

func New(sc score.Scorer) *Registry {
	return &Registry{
		rooms:  make(map[string]*room.Room),
		scorer: sc,
	}
}

// GetOrCreate returns the room for id, creating it on first use. The second
// return value reports whether this call created it.
func (g *Registry) GetOrCreate(id string) (*room.Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.rooms[id]; ok {
		return r, false
	}
	r := room.New(id, g.scorer)
	g.rooms[id] = r
	return r, true
}

func (g *Registry) Get(id string) (*room.Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[id]
	return r, ok
}

// Remove drops the room for id. Called once a room reports zero
// participants; a later GetOrCreate for the same id starts a fresh room.
func (g *Registry) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, id)
}

func (g *Registry) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}
