// Package rooms implements the room membership tracker: who is present
// in each room, independent of any game variant. It backs the generic
// chat and presence channel.
package rooms

import "sync"

// Tracker is a concurrent mapping from room id to the set of connected
// participants and their display names.
type Tracker struct {
	mu      sync.RWMutex
	members map[string]map[string]string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		members: make(map[string]map[string]string),
	}
}

// Join adds a connection to a room with its display name.
func (t *Tracker) Join(roomID, connID, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	room, ok := t.members[roomID]
	if !ok {
		room = make(map[string]string)
		t.members[roomID] = room
	}
	room[connID] = name
}

// Leave removes a connection from a room. It reports whether the
// connection was present and whether the room became empty; empty
// rooms are pruned from the tracker.
func (t *Tracker) Leave(roomID, connID string) (removed, empty bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	room, ok := t.members[roomID]
	if !ok {
		return false, false
	}
	if _, ok := room[connID]; !ok {
		return false, false
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(t.members, roomID)
		return true, true
	}
	return true, false
}

// Roster returns the display names of everyone in the room.
func (t *Tracker) Roster(roomID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	room := t.members[roomID]
	names := make([]string, 0, len(room))
	for _, name := range room {
		names = append(names, name)
	}
	return names
}

// Members returns the connection ids of everyone in the room.
func (t *Tracker) Members(roomID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	room := t.members[roomID]
	ids := make([]string, 0, len(room))
	for id := range room {
		ids = append(ids, id)
	}
	return ids
}

// RoomsOf returns every room the connection is currently in.
func (t *Tracker) RoomsOf(connID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []string
	for roomID, room := range t.members {
		if _, ok := room[connID]; ok {
			out = append(out, roomID)
		}
	}
	return out
}

// Rooms returns every tracked room id.
func (t *Tracker) Rooms() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.members))
	for roomID := range t.members {
		out = append(out, roomID)
	}
	return out
}

// Name returns the display name the connection joined the room with.
func (t *Tracker) Name(roomID, connID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name, ok := t.members[roomID][connID]
	return name, ok
}
