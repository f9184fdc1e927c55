// Package hub implements the broadcast dispatcher: the only component
// aware of the transport. It routes inbound envelopes to game
// instances and fans role-filtered views and room-wide summaries back
// out to connected clients.
package hub

import (
	"encoding/json"
	"time"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/log"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/messages"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/queue"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/registry"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/rooms"
)

const (
	// DefaultCompletedDelay paces the gap between the completion
	// notification and the refreshed views, so a client-side animation
	// can play before new data arrives.
	DefaultCompletedDelay = 600 * time.Millisecond
)

// SnapshotRequest asks the snapshot worker to persist one instance.
type SnapshotRequest struct {
	RoomID  string
	Variant games.Variant
	Game    games.Game
}

// Hub is the dispatcher. All dependencies are injected; the hub owns
// no package-level state.
type Hub struct {
	catalog        *registry.Catalog
	presence       *rooms.Tracker
	sessions       *sessionTable
	snapshotQueue  queue.Queue
	completedDelay time.Duration
}

// NewHubOptions contains options for creating a new Hub.
type NewHubOptions struct {
	Catalog  *registry.Catalog
	Presence *rooms.Tracker
	// SnapshotQueue is optional; when nil no snapshots are enqueued.
	SnapshotQueue  queue.Queue
	CompletedDelay time.Duration
}

// NewHub creates a new Hub.
func NewHub(opts NewHubOptions) *Hub {
	delay := opts.CompletedDelay
	if delay == 0 {
		delay = DefaultCompletedDelay
	}
	return &Hub{
		catalog:        opts.Catalog,
		presence:       opts.Presence,
		sessions:       newSessionTable(),
		snapshotQueue:  opts.SnapshotQueue,
		completedDelay: delay,
	}
}

// Connect registers a new transport connection.
func (h *Hub) Connect(connID string, sender Sender) {
	h.sessions.add(connID, sender)
	log.Debug("Connection %s registered", connID)
}

// Disconnect removes the connection and sweeps every room-variant map
// it may appear in, broadcasting the resulting state to each affected
// room's remaining members.
func (h *Hub) Disconnect(connID string) {
	h.sessions.remove(connID)

	for _, roomID := range h.presence.RoomsOf(connID) {
		if removed, empty := h.presence.Leave(roomID, connID); removed && !empty {
			h.broadcastRoster(roomID)
		}
	}

	h.catalog.ForEach(func(variant games.Variant, reg *registry.Registry) {
		reg.ForEach(func(roomID string, g games.Game) bool {
			if g.RemovePlayer(connID) {
				h.fanoutGame(roomID, variant, g)
				h.enqueueSnapshot(roomID, variant, g)
			}
			return true
		})
	})
	log.Debug("Connection %s swept", connID)
}

// HandleMessage routes one inbound envelope. Lookup failures are
// dropped silently; validation failures go back to the actor only.
func (h *Hub) HandleMessage(connID string, msg *messages.Message) {
	switch msg.Type {
	case messages.MessageTypeClientPing:
		h.sendTo(connID, messages.MessageTypeServerPong, "", "", nil)
	case messages.MessageTypeClientJoinRoom:
		h.handleJoinRoom(connID, msg)
	case messages.MessageTypeClientChat:
		h.handleChat(connID, msg)
	case messages.MessageTypeClientJoinGame:
		h.handleJoinGame(connID, msg)
	case messages.MessageTypeClientAction:
		h.handleAction(connID, msg)
	case messages.MessageTypeClientHint:
		h.handleHint(connID, msg)
	case messages.MessageTypeClientRestart:
		h.handleRestart(connID, msg)
	default:
		log.Debug("Unknown message type %q from %s", msg.Type, connID)
	}
}

func (h *Hub) handleJoinRoom(connID string, msg *messages.Message) {
	var p messages.ClientJoinRoom
	if err := json.Unmarshal(msg.Payload, &p); err != nil || msg.Room == "" {
		return
	}
	h.presence.Join(msg.Room, connID, p.Name)
	h.broadcastRoster(msg.Room)
}

func (h *Hub) handleChat(connID string, msg *messages.Message) {
	var p messages.ClientChat
	if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Text == "" {
		return
	}
	name, ok := h.presence.Name(msg.Room, connID)
	if !ok {
		return
	}
	payload := messages.ServerChat{From: name, Text: p.Text}
	for _, member := range h.presence.Members(msg.Room) {
		h.sendTo(member, messages.MessageTypeServerChat, msg.Room, "", payload)
	}
}

func (h *Hub) handleJoinGame(connID string, msg *messages.Message) {
	reg, variant, ok := h.registryFor(msg)
	if !ok || msg.Room == "" {
		return
	}
	var p messages.ClientJoinGame
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		return
	}

	g := reg.GetOrCreate(msg.Room)
	role, err := g.AddPlayer(connID, p.Name)
	if err != nil {
		h.sendTo(connID, messages.MessageTypeServerGameFull, msg.Room, string(variant), nil)
		return
	}

	h.sendTo(connID, messages.MessageTypeServerJoined, msg.Room, string(variant),
		messages.ServerJoined{Role: role.String()})
	h.fanoutGame(msg.Room, variant, g)
}

func (h *Hub) handleAction(connID string, msg *messages.Message) {
	reg, variant, ok := h.registryFor(msg)
	if !ok {
		return
	}
	g, ok := reg.TryGet(msg.Room)
	if !ok {
		return
	}
	var p messages.ClientAction
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		h.sendTo(connID, messages.MessageTypeServerInvalidAction, msg.Room, string(variant),
			messages.ServerInvalidAction{Reason: "Malformed action payload"})
		return
	}

	result := g.Apply(connID, p.Action, p.Data)
	if !result.OK {
		h.sendTo(connID, messages.MessageTypeServerInvalidAction, msg.Room, string(variant),
			messages.ServerInvalidAction{Reason: result.Message})
		return
	}

	h.enqueueSnapshot(msg.Room, variant, g)

	if result.Completed {
		summary := g.Summary()
		payload := messages.ServerCompleted{Score: summary.Score, Message: result.Message}
		for _, id := range g.Connections() {
			h.sendTo(id, messages.MessageTypeServerCompleted, msg.Room, string(variant), payload)
		}
		// Pacing only delays this room's refresh; the timer goroutine
		// never blocks other rooms.
		roomID := msg.Room
		time.AfterFunc(h.completedDelay, func() {
			h.fanoutGame(roomID, variant, g)
		})
		return
	}
	h.fanoutGame(msg.Room, variant, g)
}

func (h *Hub) handleHint(connID string, msg *messages.Message) {
	reg, variant, ok := h.registryFor(msg)
	if !ok {
		return
	}
	g, ok := reg.TryGet(msg.Room)
	if !ok {
		return
	}

	hint, remaining, ok := g.Hint(connID)
	if !ok {
		h.sendTo(connID, messages.MessageTypeServerInvalidAction, msg.Room, string(variant),
			messages.ServerInvalidAction{Reason: "No hints remaining"})
		return
	}
	h.sendTo(connID, messages.MessageTypeServerHint, msg.Room, string(variant),
		messages.ServerHint{Hint: hint, Remaining: remaining})

	// The hint budget is part of the room-wide summary.
	summary := g.Summary()
	for _, id := range g.Connections() {
		h.sendTo(id, messages.MessageTypeServerGameState, msg.Room, string(variant), summary)
	}
}

func (h *Hub) handleRestart(connID string, msg *messages.Message) {
	reg, variant, ok := h.registryFor(msg)
	if !ok {
		return
	}
	g, ok := reg.TryGet(msg.Room)
	if !ok {
		return
	}
	g.Reset()
	h.enqueueSnapshot(msg.Room, variant, g)
	h.fanoutGame(msg.Room, variant, g)
}

func (h *Hub) registryFor(msg *messages.Message) (*registry.Registry, games.Variant, bool) {
	variant := games.Variant(msg.Game)
	reg, ok := h.catalog.Registry(variant)
	return reg, variant, ok
}

// fanoutGame recomputes and sends the per-connection view to every
// participant plus the room-wide summary. Views are never cached
// across mutations.
func (h *Hub) fanoutGame(roomID string, variant games.Variant, g games.Game) {
	summary := g.Summary()
	for _, id := range g.Connections() {
		h.sendTo(id, messages.MessageTypeServerPlayerView, roomID, string(variant), g.View(id))
		h.sendTo(id, messages.MessageTypeServerGameState, roomID, string(variant), summary)
	}
}

func (h *Hub) broadcastRoster(roomID string) {
	roster := h.presence.Roster(roomID)
	members := make([]messages.RoomMember, 0, len(roster))
	for _, name := range roster {
		members = append(members, messages.RoomMember{Name: name})
	}
	payload := messages.ServerRoomState{Members: members}
	for _, member := range h.presence.Members(roomID) {
		h.sendTo(member, messages.MessageTypeServerRoomState, roomID, "", payload)
	}
}

func (h *Hub) enqueueSnapshot(roomID string, variant games.Variant, g games.Game) {
	if h.snapshotQueue == nil {
		return
	}
	h.snapshotQueue.Enqueue(&SnapshotRequest{RoomID: roomID, Variant: variant, Game: g})
}

func (h *Hub) sendTo(connID, msgType, room, game string, payload interface{}) {
	s, ok := h.sessions.get(connID)
	if !ok {
		return
	}
	msg, err := messages.New(msgType, room, game, payload)
	if err != nil {
		log.Error("Failed to build %s message: %v", msgType, err)
		return
	}
	if err := s.send(msg); err != nil {
		log.Debug("Failed to send %s to %s: %v", msgType, connID, err)
	}
}
