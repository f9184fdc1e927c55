package messages

import (
	"encoding/json"
	"fmt"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 4096
)

// Client message types
const (
	MessageTypeClientPing     = "ping"
	MessageTypeClientJoinRoom = "join_room"
	MessageTypeClientJoinGame = "join_game"
	MessageTypeClientAction   = "action"
	MessageTypeClientHint     = "hint"
	MessageTypeClientRestart  = "restart"
	MessageTypeClientChat     = "chat"
)

// Server message types
const (
	MessageTypeServerPong          = "pong"
	MessageTypeServerRoomState     = "room_state"
	MessageTypeServerChat          = "chat_event"
	MessageTypeServerJoined        = "joined"
	MessageTypeServerGameFull      = "game_full"
	MessageTypeServerGameState     = "game_state"
	MessageTypeServerPlayerView    = "player_view"
	MessageTypeServerCompleted     = "game_completed"
	MessageTypeServerInvalidAction = "invalid_action"
	MessageTypeServerHint          = "hint"
)

// Message represents a generic message for serialization/deserialization.
// Room scopes the message to a session, Game selects the game variant.
type Message struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	Game    string          `json:"game,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// New builds a Message with the given payload marshaled as JSON.
func New(msgType, room, game string, payload interface{}) (*Message, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %v", err)
		}
		raw = b
	}
	return &Message{
		Type:    msgType,
		Room:    room,
		Game:    game,
		Payload: raw,
	}, nil
}

// ClientJoinRoom is sent to join the room-wide presence channel.
type ClientJoinRoom struct {
	Name string `json:"name"`
}

// ClientJoinGame is sent to claim a role in a game variant.
type ClientJoinGame struct {
	Name string `json:"name"`
}

// ClientAction carries one game action and its variant-specific data.
type ClientAction struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ClientChat is a room-scoped chat line.
type ClientChat struct {
	Text string `json:"text"`
}

// RoomMember is one entry in a room roster.
type RoomMember struct {
	Name string `json:"name"`
}

// ServerRoomState echoes the current roster of a room.
type ServerRoomState struct {
	Members []RoomMember `json:"members"`
}

// ServerChat fans a chat line out to a room.
type ServerChat struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// ServerJoined confirms a role assignment to the joining connection.
type ServerJoined struct {
	Role string `json:"role"`
}

// ServerInvalidAction reports a rejected action to the actor only.
type ServerInvalidAction struct {
	Reason string `json:"reason"`
}

// ServerCompleted announces terminal completion of a game instance.
type ServerCompleted struct {
	Score   int    `json:"score"`
	Message string `json:"message"`
}

// ServerHint carries one escalating hint tier back to the requester.
type ServerHint struct {
	Hint      string `json:"hint"`
	Remaining int    `json:"remaining"`
}
