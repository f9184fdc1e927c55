// Package runelock implements the constraint puzzle: Piltover reads
// the ward rulebook while Zaun toggles the rune switch panel until
// every ward rule holds at once.
package runelock

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/rules"
)

const (
	ActionToggle   = "toggle"
	ActionSetLevel = "set_level"
)

const (
	baseScore     = 600
	togglePenalty = 10
	hintPenalty   = 100
	minimumScore  = 50
)

// Game is one rune lock instance for one room.
type Game struct {
	mu      sync.Mutex
	roster  *games.Roster
	level   Level
	vector  []bool
	toggles int
	score   int
}

// New creates a rune lock instance at the lowest difficulty.
func New() games.Game {
	g := &Game{
		roster: games.NewRoster(),
	}
	g.level, _ = LevelByNumber(MinLevel)
	g.vector = make([]bool, VectorWidth)
	return g
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

type togglePayload struct {
	Index int `json:"index"`
}

type setLevelPayload struct {
	Level int `json:"level"`
}

func (g *Game) Apply(connID, action string, data json.RawMessage) games.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if reason, ok := g.roster.Gate(connID); !ok {
		return games.Reject(reason)
	}

	switch action {
	case ActionToggle:
		return g.applyToggle(connID, data)
	case ActionSetLevel:
		return g.applySetLevel(connID, data)
	default:
		return games.Reject(fmt.Sprintf("Unknown action: %s", action))
	}
}

func (g *Game) applyToggle(connID string, data json.RawMessage) games.Result {
	if g.roster.Role(connID) != games.RoleZaun {
		return games.Reject("Only the Zaun operator can touch the switches")
	}
	var p togglePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return games.Reject("Malformed toggle payload")
	}
	if p.Index < 0 || p.Index >= VectorWidth {
		return games.Reject(fmt.Sprintf("Rune index %d is out of range", p.Index))
	}

	g.vector[p.Index] = !g.vector[p.Index]
	g.toggles++

	report := rules.Evaluate(g.level.Rules, g.vector)
	if report.AllSatisfied {
		g.roster.Complete()
		g.score = finalScore(g.toggles, g.roster.HintsUsed())
		return games.Result{
			OK:        true,
			Message:   fmt.Sprintf("All %d wards satisfied, the lock opens", report.Total),
			Completed: true,
		}
	}
	return games.Accept(fmt.Sprintf("%d of %d wards satisfied", report.Satisfied, report.Total))
}

func (g *Game) applySetLevel(connID string, data json.RawMessage) games.Result {
	if g.roster.Role(connID) != games.RolePiltover {
		return games.Reject("Only the Piltover archivist can choose the seal")
	}
	var p setLevelPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return games.Reject("Malformed level payload")
	}
	level, ok := LevelByNumber(p.Level)
	if !ok {
		return games.Reject(fmt.Sprintf("No seal of difficulty %d", p.Level))
	}

	g.level = level
	g.vector = make([]bool, VectorWidth)
	g.toggles = 0
	g.score = 0
	return games.Accept(fmt.Sprintf("Seal changed to %s", level.Name))
}

func finalScore(toggles, hintsUsed int) int {
	score := baseScore - toggles*togglePenalty - hintsUsed*hintPenalty
	if score < minimumScore {
		return minimumScore
	}
	return score
}

// PiltoverView is the rulebook side: the ward texts and which of them
// currently hold. The switch states themselves stay hidden.
type PiltoverView struct {
	Role      string             `json:"role"`
	Level     int                `json:"level"`
	LevelName string             `json:"levelName"`
	Rules     []rules.RuleResult `json:"rules"`
	HintsLeft int                `json:"hintsLeft"`
}

// ZaunView is the panel side: the switch states and the aggregate ward
// progress, without the rule texts.
type ZaunView struct {
	Role      string `json:"role"`
	Level     int    `json:"level"`
	Switches  []bool `json:"switches"`
	Satisfied int    `json:"satisfied"`
	Total     int    `json:"total"`
	Toggles   int    `json:"toggles"`
}

func (g *Game) View(connID string) interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	report := rules.Evaluate(g.level.Rules, g.vector)
	switch g.roster.Role(connID) {
	case games.RolePiltover:
		return PiltoverView{
			Role:      games.RolePiltover.String(),
			Level:     g.level.Number,
			LevelName: g.level.Name,
			Rules:     report.PerRule,
			HintsLeft: g.roster.HintsLeft(),
		}
	case games.RoleZaun:
		return ZaunView{
			Role:      games.RoleZaun.String(),
			Level:     g.level.Number,
			Switches:  append([]bool(nil), g.vector...),
			Satisfied: report.Satisfied,
			Total:     report.Total,
			Toggles:   g.toggles,
		}
	default:
		return ZaunView{}
	}
}

func (g *Game) Summary() games.Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	report := rules.Evaluate(g.level.Rules, g.vector)
	return games.Summary{
		Variant:   games.VariantRuneLock,
		Phase:     g.roster.Phase().String(),
		Players:   g.roster.Infos(),
		Score:     g.score,
		Progress:  fmt.Sprintf("%d/%d wards", report.Satisfied, report.Total),
		HintsLeft: g.roster.HintsLeft(),
	}
}

// Hint escalates across three tiers: first a violated ward, then a
// suspect rune, then the correct state of that rune. The puzzle state
// itself is never mutated.
func (g *Game) Hint(connID string) (string, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.roster.Player(connID); !ok {
		return "", 0, false
	}
	tier := g.roster.HintsUsed()
	remaining, ok := g.roster.UseHint()
	if !ok {
		return "", 0, false
	}

	switch tier {
	case 0:
		for _, r := range g.level.Rules {
			if !r.Satisfied(g.vector) {
				return fmt.Sprintf("A ward is broken: %s", r.Text), remaining, true
			}
		}
		return "Every ward already holds", remaining, true
	case 1:
		if i, found := g.firstWrongRune(); found {
			return fmt.Sprintf("Rune %d is in the wrong state", i+1), remaining, true
		}
		return "Every rune is already correct", remaining, true
	default:
		if i, found := g.firstWrongRune(); found {
			state := "dark"
			if g.level.Solution[i] {
				state = "lit"
			}
			return fmt.Sprintf("Set rune %d to %s", i+1, state), remaining, true
		}
		return "Every rune is already correct", remaining, true
	}
}

func (g *Game) firstWrongRune() (int, bool) {
	for i := range g.vector {
		if g.vector[i] != g.level.Solution[i] {
			return i, true
		}
	}
	return 0, false
}

func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.vector = make([]bool, VectorWidth)
	g.toggles = 0
	g.score = 0
	g.roster.ResetProgress()
}

type snapshot struct {
	Level   int                `json:"level"`
	Vector  []bool             `json:"vector"`
	Toggles int                `json:"toggles"`
	Score   int                `json:"score"`
	Players []games.PlayerInfo `json:"players"`
}

func (g *Game) Snapshot() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return json.Marshal(snapshot{
		Level:   g.level.Number,
		Vector:  g.vector,
		Toggles: g.toggles,
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
