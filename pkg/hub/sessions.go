package hub

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/messages"
	"github.com/gorilla/websocket"
)

// Sender is the write half of a transport connection.
// *websocket.Conn satisfies it.
type Sender interface {
	WriteMessage(messageType int, data []byte) error
}

// session pairs a connection id with its writer. Writes are serialized
// per connection; gorilla connections do not allow concurrent writers.
type session struct {
	id     string
	sender Sender
	mu     sync.Mutex
}

func (s *session) send(msg *messages.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sender.WriteMessage(websocket.TextMessage, b)
}

type sessionTable struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionTable() *sessionTable {
	return &sessionTable{
		sessions: make(map[string]*session),
	}
}

func (t *sessionTable) add(connID string, sender Sender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[connID] = &session{id: connID, sender: sender}
}

func (t *sessionTable) remove(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, connID)
}

func (t *sessionTable) get(connID string) (*session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[connID]
	return s, ok
}
