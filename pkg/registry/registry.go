// Package registry implements the process-wide mapping from room
// identifiers to live game instances, one registry per game variant.
package registry

import (
	"sync"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
)

// Registry is a concurrent room-id → game-instance map for one
// variant. Instances are created lazily on first join.
type Registry struct {
	factory games.Factory
	rooms   sync.Map
}

// New creates a registry backed by the given instance factory.
func New(factory games.Factory) *Registry {
	return &Registry{factory: factory}
}

// GetOrCreate returns the instance for the room, creating it if
// absent. Two concurrent first-joins to the same room observe the same
// instance; LoadOrStore makes the insert atomic.
func (r *Registry) GetOrCreate(roomID string) games.Game {
	if g, ok := r.rooms.Load(roomID); ok {
		return g.(games.Game)
	}
	actual, _ := r.rooms.LoadOrStore(roomID, r.factory())
	return actual.(games.Game)
}

// TryGet returns the instance for the room without creating one.
func (r *Registry) TryGet(roomID string) (games.Game, bool) {
	g, ok := r.rooms.Load(roomID)
	if !ok {
		return nil, false
	}
	return g.(games.Game), true
}

// ForEach visits every live instance. Used by the disconnect sweep.
// Return false from fn to stop early.
func (r *Registry) ForEach(fn func(roomID string, g games.Game) bool) {
	r.rooms.Range(func(key, value interface{}) bool {
		return fn(key.(string), value.(games.Game))
	})
}

// Remove drops the instance for the room if present.
func (r *Registry) Remove(roomID string) {
	r.rooms.Delete(roomID)
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	n := 0
	r.rooms.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
