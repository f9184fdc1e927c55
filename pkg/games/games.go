package games

import (
	"encoding/json"
	"errors"
)

const (
	// MaxPlayers represents the number of roles in every variant
	MaxPlayers = 2
	// HintBudget represents the number of hints available per session
	HintBudget = 3
)

// ErrGameFull is returned by AddPlayer when both roles are occupied.
var ErrGameFull = errors.New("game is full")

// Variant identifies a game variant.
type Variant string

const (
	VariantRuneLock  Variant = "runelock"
	VariantWordGuess Variant = "wordguess"
	VariantSignals   Variant = "signals"
	VariantMaze      Variant = "maze"
	VariantAlchemy   Variant = "alchemy"
	VariantTicTacToe Variant = "tictactoe"
)

// Variants lists every known variant tag.
func Variants() []Variant {
	return []Variant{
		VariantRuneLock,
		VariantWordGuess,
		VariantSignals,
		VariantMaze,
		VariantAlchemy,
		VariantTicTacToe,
	}
}

// Role is one of the two asymmetric identities within a game instance.
type Role int

const (
	RoleNone Role = iota
	RolePiltover
	RoleZaun
)

func (r Role) String() string {
	switch r {
	case RolePiltover:
		return "piltover"
	case RoleZaun:
		return "zaun"
	default:
		return "none"
	}
}

// Phase represents the generic lifecycle state of a game instance.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseWaiting
	PhaseActive
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Player is one joined participant of a game instance.
type Player struct {
	ConnID string `json:"-"`
	Name   string `json:"name"`
	Role   Role   `json:"-"`
}

// PlayerInfo is the wire representation of a joined player.
type PlayerInfo struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Summary is the room-wide, role-agnostic state of a game instance.
type Summary struct {
	Variant   Variant      `json:"game"`
	Phase     string       `json:"phase"`
	Players   []PlayerInfo `json:"players"`
	Score     int          `json:"score"`
	Progress  string       `json:"progress"`
	HintsLeft int          `json:"hintsLeft"`
}

// Result is the outcome of applying one action. Completed is true only
// on the transition into the terminal phase, never on later actions.
type Result struct {
	OK        bool
	Message   string
	Completed bool
}

// Accept builds a successful Result.
func Accept(message string) Result {
	return Result{OK: true, Message: message}
}

// Reject builds a failed Result. A rejected action must leave the
// instance state untouched.
func Reject(reason string) Result {
	return Result{OK: false, Message: reason}
}

// Game is the uniform lifecycle contract every variant implements.
// Implementations must serialize all calls internally; the dispatcher
// may invoke them from concurrent connection handlers.
type Game interface {
	// AddPlayer assigns the first free role by arrival order. It is
	// idempotent for a connection id that already holds a role.
	AddPlayer(connID, name string) (Role, error)
	// RemovePlayer removes the entry if present and reports whether
	// removal occurred.
	RemovePlayer(connID string) bool
	// Apply validates and applies one action. Failed validations must
	// not mutate any observable state.
	Apply(connID, action string, data json.RawMessage) Result
	// View returns the role-filtered projection for one connection, or
	// a zero view if the connection holds no role.
	View(connID string) interface{}
	// Summary returns the room-wide summary state.
	Summary() Summary
	// Connections returns the connection ids currently holding roles.
	Connections() []string
	// Hint consumes one unit of the hint budget and returns the next
	// escalating hint tier. ok is false when the budget is exhausted
	// or the connection holds no role.
	Hint(connID string) (hint string, remaining int, ok bool)
	// Reset restores all mutable fields to their initial values while
	// preserving the player map.
	Reset()
	// Snapshot serializes the instance state for the snapshot
	// repository.
	Snapshot() ([]byte, error)
}

// Factory constructs a fresh game instance for a room.
type Factory func() Game
