// Package wordguess implements the two-role word game: Piltover sees
// the secret word and sends clues, Zaun guesses.
package wordguess

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
)

const (
	ActionClue  = "clue"
	ActionGuess = "guess"
)

const (
	wordBaseScore   = 100
	attemptPenalty  = 10
	hintWordPenalty = 20
	minimumWord     = 10
)

// defaultWords is the authored word list played in order.
var defaultWords = []string{
	"hexcore",
	"shimmer",
	"firelight",
	"enforcer",
	"undercity",
}

// Game is one word guessing instance for one room.
type Game struct {
	mu       sync.Mutex
	roster   *games.Roster
	words    []string
	index    int
	attempts int
	clues    []string
	score    int
}

// New creates a word guessing instance over the default word list.
func New() games.Game {
	return &Game{
		roster: games.NewRoster(),
		words:  defaultWords,
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

type cluePayload struct {
	Text string `json:"text"`
}

type guessPayload struct {
	Word string `json:"word"`
}

func (g *Game) Apply(connID, action string, data json.RawMessage) games.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if reason, ok := g.roster.Gate(connID); !ok {
		return games.Reject(reason)
	}

	switch action {
	case ActionClue:
		return g.applyClue(connID, data)
	case ActionGuess:
		return g.applyGuess(connID, data)
	default:
		return games.Reject(fmt.Sprintf("Unknown action: %s", action))
	}
}

func (g *Game) applyClue(connID string, data json.RawMessage) games.Result {
	if g.roster.Role(connID) != games.RolePiltover {
		return games.Reject("Only the clue giver can send clues")
	}
	var p cluePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return games.Reject("Malformed clue payload")
	}
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return games.Reject("A clue cannot be empty")
	}
	if strings.Contains(strings.ToLower(text), g.currentWord()) {
		return games.Reject("The clue cannot contain the secret word")
	}

	g.clues = append(g.clues, text)
	return games.Accept("Clue sent")
}

func (g *Game) applyGuess(connID string, data json.RawMessage) games.Result {
	if g.roster.Role(connID) != games.RoleZaun {
		return games.Reject("Only the guesser can submit guesses")
	}
	var p guessPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return games.Reject("Malformed guess payload")
	}
	word := strings.ToLower(strings.TrimSpace(p.Word))
	if word == "" {
		return games.Reject("A guess cannot be empty")
	}

	if word != g.currentWord() {
		// The attempt counter is internal scoring bookkeeping; it is
		// never exposed through views, so a wrong guess leaves all
		// observable state unchanged.
		g.attempts++
		return games.Reject(fmt.Sprintf("Incorrect guess: %s", p.Word))
	}

	g.score += wordScore(g.attempts, g.roster.HintsUsed())
	g.index++
	g.attempts = 0
	g.clues = nil

	if g.index >= len(g.words) {
		g.roster.Complete()
		return games.Result{
			OK:        true,
			Message:   fmt.Sprintf("All %d words guessed", len(g.words)),
			Completed: true,
		}
	}
	return games.Accept(fmt.Sprintf("Correct, on to word %d of %d", g.index+1, len(g.words)))
}

// wordScore is the deterministic per-word score: the base minus the
// penalties for wrong attempts so far and hints used this session.
func wordScore(attempts, hintsUsed int) int {
	score := wordBaseScore - attempts*attemptPenalty - hintsUsed*hintWordPenalty
	if score < minimumWord {
		return minimumWord
	}
	return score
}

func (g *Game) currentWord() string {
	if g.index >= len(g.words) {
		return ""
	}
	return g.words[g.index]
}

// ClueGiverView shows the secret word alongside the clues sent so far.
type ClueGiverView struct {
	Role      string   `json:"role"`
	Word      string   `json:"word"`
	WordIndex int      `json:"wordIndex"`
	WordCount int      `json:"wordCount"`
	Clues     []string `json:"clues"`
}

// GuesserView hides the word and exposes only its length and the clues.
type GuesserView struct {
	Role       string   `json:"role"`
	WordLength int      `json:"wordLength"`
	WordIndex  int      `json:"wordIndex"`
	WordCount  int      `json:"wordCount"`
	Clues      []string `json:"clues"`
}

func (g *Game) View(connID string) interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.roster.Role(connID) {
	case games.RolePiltover:
		return ClueGiverView{
			Role:      games.RolePiltover.String(),
			Word:      g.currentWord(),
			WordIndex: g.index,
			WordCount: len(g.words),
			Clues:     append([]string(nil), g.clues...),
		}
	case games.RoleZaun:
		return GuesserView{
			Role:       games.RoleZaun.String(),
			WordLength: len(g.currentWord()),
			WordIndex:  g.index,
			WordCount:  len(g.words),
			Clues:      append([]string(nil), g.clues...),
		}
	default:
		return GuesserView{}
	}
}

func (g *Game) Summary() games.Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	return games.Summary{
		Variant:   games.VariantWordGuess,
		Phase:     g.roster.Phase().String(),
		Players:   g.roster.Infos(),
		Score:     g.score,
		Progress:  fmt.Sprintf("%d/%d words", g.index, len(g.words)),
		HintsLeft: g.roster.HintsLeft(),
	}
}

// Hint reveals a growing prefix of the current word.
func (g *Game) Hint(connID string) (string, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.roster.Player(connID); !ok {
		return "", 0, false
	}
	word := g.currentWord()
	if word == "" {
		return "", 0, false
	}
	tier := g.roster.HintsUsed()
	remaining, ok := g.roster.UseHint()
	if !ok {
		return "", 0, false
	}

	reveal := tier + 1
	if reveal > len(word) {
		reveal = len(word)
	}
	return fmt.Sprintf("The word starts with %q", word[:reveal]), remaining, true
}

func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.index = 0
	g.attempts = 0
	g.clues = nil
	g.score = 0
	g.roster.ResetProgress()
}

type snapshot struct {
	Index    int                `json:"index"`
	Attempts int                `json:"attempts"`
	Score    int                `json:"score"`
	Players  []games.PlayerInfo `json:"players"`
}

func (g *Game) Snapshot() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return json.Marshal(snapshot{
		Index:    g.index,
		Attempts: g.attempts,
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
