// Package maze implements blind maze navigation: Piltover sees the
// tunnel map, Zaun only knows the current cell and moves on Piltover's
// spoken directions.
package maze

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
)

const ActionMove = "move"

const (
	mazeBaseScore   = 500
	stepPenalty     = 5
	bumpPenalty     = 15
	hintMazePenalty = 75
)

// defaultLayout is the authored tunnel map. '#' is rock, '.' is open,
// 'S' is the start cell, 'E' is the exit.
var defaultLayout = []string{
	"#########",
	"#S..#...#",
	"#.#.#.#.#",
	"#.#...#.#",
	"#.###.#.#",
	"#...#.#.#",
	"###.#.#.#",
	"#...#..E#",
	"#########",
}

type point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

var directions = map[string]point{
	"north": {Row: -1},
	"south": {Row: 1},
	"west":  {Col: -1},
	"east":  {Col: 1},
}

// Game is one maze instance for one room.
type Game struct {
	mu     sync.Mutex
	roster *games.Roster
	layout []string
	start  point
	exit   point
	pos    point
	steps  int
	bumps  int
	score  int
}

// New creates a maze instance over the authored layout.
func New() games.Game {
	g := &Game{
		roster: games.NewRoster(),
		layout: defaultLayout,
	}
	for r, row := range g.layout {
		for c, cell := range row {
			switch cell {
			case 'S':
				g.start = point{Row: r, Col: c}
			case 'E':
				g.exit = point{Row: r, Col: c}
			}
		}
	}
	g.pos = g.start
	return g
}

func (g *Game) open(p point) bool {
	if p.Row < 0 || p.Row >= len(g.layout) {
		return false
	}
	row := g.layout[p.Row]
	if p.Col < 0 || p.Col >= len(row) {
		return false
	}
	return row[p.Col] != '#'
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

type movePayload struct {
	Direction string `json:"direction"`
}

func (g *Game) Apply(connID, action string, data json.RawMessage) games.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if reason, ok := g.roster.Gate(connID); !ok {
		return games.Reject(reason)
	}
	if action != ActionMove {
		return games.Reject(fmt.Sprintf("Unknown action: %s", action))
	}
	if g.roster.Role(connID) != games.RoleZaun {
		return games.Reject("Only the runner can move")
	}

	var p movePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return games.Reject("Malformed move payload")
	}
	dir, ok := directions[strings.ToLower(p.Direction)]
	if !ok {
		return games.Reject(fmt.Sprintf("Unknown direction: %s", p.Direction))
	}

	next := point{Row: g.pos.Row + dir.Row, Col: g.pos.Col + dir.Col}
	if !g.open(next) {
		g.bumps++
		return games.Reject(fmt.Sprintf("A wall blocks the way %s", strings.ToLower(p.Direction)))
	}

	g.pos = next
	g.steps++

	if g.pos == g.exit {
		g.roster.Complete()
		g.score = mazeScore(g.steps, g.bumps, g.roster.HintsUsed())
		return games.Result{
			OK:        true,
			Message:   fmt.Sprintf("The runner reached the exit in %d steps", g.steps),
			Completed: true,
		}
	}
	return games.Accept(fmt.Sprintf("Moved %s", strings.ToLower(p.Direction)))
}

func mazeScore(steps, bumps, hintsUsed int) int {
	score := mazeBaseScore - steps*stepPenalty - bumps*bumpPenalty - hintsUsed*hintMazePenalty
	if score < 0 {
		return 0
	}
	return score
}

// MapView is the Piltover side: the full layout and the runner's cell.
type MapView struct {
	Role   string   `json:"role"`
	Layout []string `json:"layout"`
	Runner point    `json:"runner"`
	Exit   point    `json:"exit"`
}

// RunnerView is the Zaun side: the current cell only.
type RunnerView struct {
	Role     string `json:"role"`
	Position point  `json:"position"`
	Steps    int    `json:"steps"`
}

func (g *Game) View(connID string) interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.roster.Role(connID) {
	case games.RolePiltover:
		return MapView{
			Role:   games.RolePiltover.String(),
			Layout: append([]string(nil), g.layout...),
			Runner: g.pos,
			Exit:   g.exit,
		}
	case games.RoleZaun:
		return RunnerView{
			Role:     games.RoleZaun.String(),
			Position: g.pos,
			Steps:    g.steps,
		}
	default:
		return RunnerView{}
	}
}

func (g *Game) Summary() games.Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	return games.Summary{
		Variant:   games.VariantMaze,
		Phase:     g.roster.Phase().String(),
		Players:   g.roster.Infos(),
		Score:     g.score,
		Progress:  fmt.Sprintf("%d steps", g.steps),
		HintsLeft: g.roster.HintsLeft(),
	}
}

// Hint reveals the next direction along a shortest path to the exit.
func (g *Game) Hint(connID string) (string, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.roster.Player(connID); !ok {
		return "", 0, false
	}
	dir, found := g.nextDirection()
	if !found {
		return "", 0, false
	}
	remaining, ok := g.roster.UseHint()
	if !ok {
		return "", 0, false
	}
	return fmt.Sprintf("Head %s", dir), remaining, true
}

// nextDirection runs a BFS from the current cell and returns the first
// move of a shortest path to the exit.
func (g *Game) nextDirection() (string, bool) {
	if g.pos == g.exit {
		return "", false
	}
	type node struct {
		p     point
		first string
	}
	visited := map[point]bool{g.pos: true}
	frontier := []node{{p: g.pos}}
	order := []string{"north", "south", "west", "east"}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, name := range order {
			d := directions[name]
			next := point{Row: cur.p.Row + d.Row, Col: cur.p.Col + d.Col}
			if visited[next] || !g.open(next) {
				continue
			}
			first := cur.first
			if first == "" {
				first = name
			}
			if next == g.exit {
				return first, true
			}
			visited[next] = true
			frontier = append(frontier, node{p: next, first: first})
		}
	}
	return "", false
}

func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pos = g.start
	g.steps = 0
	g.bumps = 0
	g.score = 0
	g.roster.ResetProgress()
}

type snapshot struct {
	Position point              `json:"position"`
	Steps    int                `json:"steps"`
	Score    int                `json:"score"`
	Players  []games.PlayerInfo `json:"players"`
}

func (g *Game) Snapshot() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return json.Marshal(snapshot{
		Position: g.pos,
		Steps:    g.steps,
		Score:    g.score,
		Players:  g.roster.Infos(),
	})
}

// Connections returns the connection ids currently holding roles.
func (g *Game) Connections() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roster.ConnIDs()
}
