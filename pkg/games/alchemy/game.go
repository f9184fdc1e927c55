// Package alchemy implements the multi-step recipe game: Piltover
// reads the ordered recipe, Zaun works the bench and must add the
// ingredients in exactly that order.
package alchemy

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
)

const ActionAdd = "add"

const (
	stepScore       = 75
	spillPenalty    = 20
	hintStepPenalty = 40
)

// defaultRecipe is the ordered ingredient list of the authored brew.
var defaultRecipe = []string{
	"shimmer essence",
	"gray root",
	"powdered hexite",
	"cave mushroom",
	"distilled rainwater",
	"ember salt",
}

// defaultShelf is everything on the bench, in display order. It is a
// superset of the recipe.
var defaultShelf = []string{
	"cave mushroom",
	"distilled rainwater",
	"ember salt",
	"gray root",
	"nightbloom petal",
	"powdered hexite",
	"rusted filings",
	"shimmer essence",
	"sump water",
}

// Game is one alchemy bench instance for one room.
type Game struct {
	mu     sync.Mutex
	roster *games.Roster
	recipe []string
	shelf  []string
	cursor int
	spills int
	score  int
}

// New creates an alchemy instance over the authored brew.
func New() games.Game {
	return &Game{
		roster: games.NewRoster(),
		recipe: defaultRecipe,
		shelf:  defaultShelf,
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

type addPayload struct {
	Ingredient string `json:"ingredient"`
}

func (g *Game) Apply(connID, action string, data json.RawMessage) games.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if reason, ok := g.roster.Gate(connID); !ok {
		return games.Reject(reason)
	}
	if action != ActionAdd {
		return games.Reject(fmt.Sprintf("Unknown action: %s", action))
	}
	if g.roster.Role(connID) != games.RoleZaun {
		return games.Reject("Only the bench worker can add ingredients")
	}

	var p addPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return games.Reject("Malformed ingredient payload")
	}
	ingredient := strings.ToLower(strings.TrimSpace(p.Ingredient))
	if !g.onShelf(ingredient) {
		return games.Reject(fmt.Sprintf("There is no %s on the shelf", p.Ingredient))
	}

	if ingredient != g.recipe[g.cursor] {
		g.spills++
		return games.Reject(fmt.Sprintf("%s is not the next ingredient, the brew hisses", p.Ingredient))
	}

	g.cursor++
	if g.cursor >= len(g.recipe) {
		g.roster.Complete()
		g.score = brewScore(len(g.recipe), g.spills, g.roster.HintsUsed())
		return games.Result{
			OK:        true,
			Message:   "The brew settles into a steady glow",
			Completed: true,
		}
	}
	return games.Accept(fmt.Sprintf("Added %s, step %d of %d", ingredient, g.cursor, len(g.recipe)))
}

func brewScore(steps, spills, hintsUsed int) int {
	score := steps*stepScore - spills*spillPenalty - hintsUsed*hintStepPenalty
	if score < 0 {
		return 0
	}
	return score
}

func (g *Game) onShelf(ingredient string) bool {
	for _, s := range g.shelf {
		if s == ingredient {
			return true
		}
	}
	return false
}

// RecipeView is the Piltover side: the full ordered recipe and how far
// the brew has come.
type RecipeView struct {
	Role   string   `json:"role"`
	Recipe []string `json:"recipe"`
	Cursor int      `json:"cursor"`
}

// BenchView is the Zaun side: the shelf and the brew progress, without
// the recipe order.
type BenchView struct {
	Role      string   `json:"role"`
	Shelf     []string `json:"shelf"`
	StepsDone int      `json:"stepsDone"`
	StepCount int      `json:"stepCount"`
}

func (g *Game) View(connID string) interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.roster.Role(connID) {
	case games.RolePiltover:
		return RecipeView{
			Role:   games.RolePiltover.String(),
			Recipe: append([]string(nil), g.recipe...),
			Cursor: g.cursor,
		}
	case games.RoleZaun:
		return BenchView{
			Role:      games.RoleZaun.String(),
			Shelf:     append([]string(nil), g.shelf...),
			StepsDone: g.cursor,
			StepCount: len(g.recipe),
		}
	default:
		return BenchView{}
	}
}

func (g *Game) Summary() games.Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	return games.Summary{
		Variant:   games.VariantAlchemy,
		Phase:     g.roster.Phase().String(),
		Players:   g.roster.Infos(),
		Score:     g.score,
		Progress:  fmt.Sprintf("%d/%d steps", g.cursor, len(g.recipe)),
		HintsLeft: g.roster.HintsLeft(),
	}
}

// Hint names the next ingredient of the recipe.
func (g *Game) Hint(connID string) (string, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.roster.Player(connID); !ok {
		return "", 0, false
	}
	if g.cursor >= len(g.recipe) {
		return "", 0, false
	}
	remaining, ok := g.roster.UseHint()
	if !ok {
		return "", 0, false
	}
	return fmt.Sprintf("The brew wants %s next", g.recipe[g.cursor]), remaining, true
}

func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cursor = 0
	g.spills = 0
	g.score = 0
	g.roster.ResetProgress()
}

type snapshot struct {
	Cursor  int                `json:"cursor"`
	Score   int                `json:"score"`
	Players []games.PlayerInfo `json:"players"`
}

func (g *Game) Snapshot() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return json.Marshal(snapshot{
		Cursor:  g.cursor,
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
