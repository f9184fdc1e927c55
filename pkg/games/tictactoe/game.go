// Package tictactoe implements the symmetric board variant: both
// players see the same board and alternate turn-validated placements.
package tictactoe

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
)

const ActionPlace = "place"

const boardCells = 9

// winScore is awarded to the side that completes a line.
const winScore = 100

var lines = [][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Game is one board instance for one room. Piltover plays X and moves
// first, Zaun plays O.
type Game struct {
	mu     sync.Mutex
	roster *games.Roster
	board  [boardCells]games.Role
	turn   games.Role
	winner games.Role
	moves  int
	score  int
}

// New creates an empty board.
func New() games.Game {
	return &Game{
		roster: games.NewRoster(),
		turn:   games.RolePiltover,
	}
}

func (g *Game) AddPlayer(connID, name string) (games.Role, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roster.Add(connID, name)
}

func (g *Game) RemovePlayer(connID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roster.Remove(connID)
}

type placePayload struct {
	Cell int `json:"cell"`
}

func (g *Game) Apply(connID, action string, data json.RawMessage) games.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if reason, ok := g.roster.Gate(connID); !ok {
		return games.Reject(reason)
	}
	if action != ActionPlace {
		return games.Reject(fmt.Sprintf("Unknown action: %s", action))
	}

	role := g.roster.Role(connID)
	if role != g.turn {
		return games.Reject("It is not your turn")
	}

	var p placePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return games.Reject("Malformed placement payload")
	}
	if p.Cell < 0 || p.Cell >= boardCells {
		return games.Reject(fmt.Sprintf("Cell %d is off the board", p.Cell))
	}
	if g.board[p.Cell] != games.RoleNone {
		return games.Reject(fmt.Sprintf("Cell %d is already taken", p.Cell))
	}

	g.board[p.Cell] = role
	g.moves++

	if g.lineFor(role) {
		g.winner = role
		g.score = winScore
		g.roster.Complete()
		return games.Result{
			OK:        true,
			Message:   fmt.Sprintf("%s completes a line", role),
			Completed: true,
		}
	}
	if g.moves == boardCells {
		g.roster.Complete()
		return games.Result{
			OK:        true,
			Message:   "The board is full, a draw",
			Completed: true,
		}
	}

	g.turn = other(role)
	return games.Accept(fmt.Sprintf("%s placed on cell %d", role, p.Cell))
}

func other(r games.Role) games.Role {
	if r == games.RolePiltover {
		return games.RoleZaun
	}
	return games.RolePiltover
}

func (g *Game) lineFor(role games.Role) bool {
	for _, l := range lines {
		if g.board[l[0]] == role && g.board[l[1]] == role && g.board[l[2]] == role {
			return true
		}
	}
	return false
}

// BoardView is identical for both roles apart from the viewer's own
// role tag.
type BoardView struct {
	Role   string   `json:"role"`
	Board  []string `json:"board"`
	Turn   string   `json:"turn"`
	Winner string   `json:"winner,omitempty"`
}

func cellMark(r games.Role) string {
	switch r {
	case games.RolePiltover:
		return "X"
	case games.RoleZaun:
		return "O"
	default:
		return ""
	}
}

func (g *Game) View(connID string) interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	role := g.roster.Role(connID)
	if role == games.RoleNone {
		return BoardView{}
	}

	board := make([]string, boardCells)
	for i, c := range g.board {
		board[i] = cellMark(c)
	}
	view := BoardView{
		Role:  role.String(),
		Board: board,
		Turn:  g.turn.String(),
	}
	if g.winner != games.RoleNone {
		view.Winner = g.winner.String()
	}
	return view
}

func (g *Game) Summary() games.Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	return games.Summary{
		Variant:   games.VariantTicTacToe,
		Phase:     g.roster.Phase().String(),
		Players:   g.roster.Infos(),
		Score:     g.score,
		Progress:  fmt.Sprintf("%d moves", g.moves),
		HintsLeft: g.roster.HintsLeft(),
	}
}

// Hint suggests a free cell, center and corners first.
func (g *Game) Hint(connID string) (string, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.roster.Player(connID); !ok {
		return "", 0, false
	}
	if g.roster.Completed() {
		return "", 0, false
	}
	remaining, ok := g.roster.UseHint()
	if !ok {
		return "", 0, false
	}

	preference := []int{4, 0, 2, 6, 8, 1, 3, 5, 7}
	for _, cell := range preference {
		if g.board[cell] == games.RoleNone {
			return fmt.Sprintf("Cell %d is open", cell), remaining, true
		}
	}
	return "No cells left", remaining, true
}

func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.board = [boardCells]games.Role{}
	g.turn = games.RolePiltover
	g.winner = games.RoleNone
	g.moves = 0
	g.score = 0
	g.roster.ResetProgress()
}

type snapshot struct {
	Board   []string           `json:"board"`
	Turn    string             `json:"turn"`
	Moves   int                `json:"moves"`
	Score   int                `json:"score"`
	Players []games.PlayerInfo `json:"players"`
}

func (g *Game) Snapshot() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	board := make([]string, boardCells)
	for i, c := range g.board {
		board[i] = cellMark(c)
	}
	return json.Marshal(snapshot{
		Board:   board,
		Turn:    g.turn.String(),
		Moves:   g.moves,
		Score:   g.score,
		Players: g.roster.Infos(),
	})
}

// Connections returns the connection ids currently holding roles.
func (g *Game) Connections() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roster.ConnIDs()
}
