// Package signals implements the signal decoding game: Piltover holds
// the symbol code chart, Zaun sees an encoded transmission per stage
// and submits the decoded plaintext.
package signals

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
)

const ActionDecode = "decode"

const (
	stageScore       = 150
	missPenalty      = 25
	hintStagePenalty = 50
)

// glyphs maps each letter a-z to its code symbol. The chart is static;
// only Piltover's view exposes it.
var glyphs = []string{
	"▲", "◆", "●", "■", "○", "◇", "△", "□",
	"✶", "✚", "✦", "☾", "☽", "✖", "✜", "❖",
	"◈", "✪", "☰", "☷", "✤", "⌘", "⍟", "✣",
	"❂", "✹",
}

// defaultStages is the ordered list of transmissions to decode.
var defaultStages = []string{
	"vander",
	"firelight",
	"hexgate",
	"shimmer",
}

func encode(word string) []string {
	out := make([]string, 0, len(word))
	for _, r := range word {
		if r < 'a' || r > 'z' {
			continue
		}
		out = append(out, glyphs[r-'a'])
	}
	return out
}

// ChartEntry is one symbol/letter pair of the code chart.
type ChartEntry struct {
	Symbol string `json:"symbol"`
	Letter string `json:"letter"`
}

func chart() []ChartEntry {
	out := make([]ChartEntry, 0, len(glyphs))
	for i, s := range glyphs {
		out = append(out, ChartEntry{Symbol: s, Letter: string(rune('a' + i))})
	}
	return out
}

// Game is one signal decoding instance for one room.
type Game struct {
	mu     sync.Mutex
	roster *games.Roster
	stages []string
	cursor int
	misses int
	score  int
}

// New creates a signal decoding instance over the default stages.
func New() games.Game {
	return &Game{
		roster: games.NewRoster(),
		stages: defaultStages,
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

type decodePayload struct {
	Text string `json:"text"`
}

func (g *Game) Apply(connID, action string, data json.RawMessage) games.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if reason, ok := g.roster.Gate(connID); !ok {
		return games.Reject(reason)
	}
	if action != ActionDecode {
		return games.Reject(fmt.Sprintf("Unknown action: %s", action))
	}
	if g.roster.Role(connID) != games.RoleZaun {
		return games.Reject("Only the receiver can submit a decode")
	}

	var p decodePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return games.Reject("Malformed decode payload")
	}
	text := strings.ToLower(strings.TrimSpace(p.Text))
	if text == "" {
		return games.Reject("A decode cannot be empty")
	}

	if text != g.stages[g.cursor] {
		g.misses++
		return games.Reject(fmt.Sprintf("Incorrect decode: %s", p.Text))
	}

	score := stageScore - g.misses*missPenalty - g.roster.HintsUsed()*hintStagePenalty
	if score < 0 {
		score = 0
	}
	g.score += score
	g.cursor++
	g.misses = 0

	if g.cursor >= len(g.stages) {
		g.roster.Complete()
		return games.Result{
			OK:        true,
			Message:   fmt.Sprintf("All %d transmissions decoded", len(g.stages)),
			Completed: true,
		}
	}
	return games.Accept(fmt.Sprintf("Decoded, transmission %d of %d incoming", g.cursor+1, len(g.stages)))
}

// ChartView is the Piltover side: the full code chart.
type ChartView struct {
	Role       string       `json:"role"`
	Chart      []ChartEntry `json:"chart"`
	Stage      int          `json:"stage"`
	StageCount int          `json:"stageCount"`
}

// ReceiverView is the Zaun side: the encoded transmission only.
type ReceiverView struct {
	Role       string   `json:"role"`
	Encoded    []string `json:"encoded"`
	Stage      int      `json:"stage"`
	StageCount int      `json:"stageCount"`
}

func (g *Game) View(connID string) interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.roster.Role(connID) {
	case games.RolePiltover:
		return ChartView{
			Role:       games.RolePiltover.String(),
			Chart:      chart(),
			Stage:      g.cursor,
			StageCount: len(g.stages),
		}
	case games.RoleZaun:
		var encoded []string
		if g.cursor < len(g.stages) {
			encoded = encode(g.stages[g.cursor])
		}
		return ReceiverView{
			Role:       games.RoleZaun.String(),
			Encoded:    encoded,
			Stage:      g.cursor,
			StageCount: len(g.stages),
		}
	default:
		return ReceiverView{}
	}
}

func (g *Game) Summary() games.Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	return games.Summary{
		Variant:   games.VariantSignals,
		Phase:     g.roster.Phase().String(),
		Players:   g.roster.Infos(),
		Score:     g.score,
		Progress:  fmt.Sprintf("%d/%d transmissions", g.cursor, len(g.stages)),
		HintsLeft: g.roster.HintsLeft(),
	}
}

// Hint reveals the decoded letter at the next position of the current
// transmission.
func (g *Game) Hint(connID string) (string, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.roster.Player(connID); !ok {
		return "", 0, false
	}
	if g.cursor >= len(g.stages) {
		return "", 0, false
	}
	tier := g.roster.HintsUsed()
	remaining, ok := g.roster.UseHint()
	if !ok {
		return "", 0, false
	}

	word := g.stages[g.cursor]
	pos := tier
	if pos >= len(word) {
		pos = len(word) - 1
	}
	return fmt.Sprintf("Symbol %s means %q", glyphs[word[pos]-'a'], string(word[pos])), remaining, true
}

func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cursor = 0
	g.misses = 0
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
