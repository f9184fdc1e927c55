package maze

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exitPath is the only route through the authored layout from the start
// cell (1,1) to the exit (7,7).
var exitPath = []string{
	"east", "east", "south", "south", "east", "east",
	"south", "south", "south", "south", "east", "east",
}

func newActiveGame(t *testing.T) games.Game {
	t.Helper()
	g := New()
	role, err := g.AddPlayer("conn-a", "caitlyn")
	require.NoError(t, err)
	require.Equal(t, games.RolePiltover, role)
	role, err = g.AddPlayer("conn-b", "vi")
	require.NoError(t, err)
	require.Equal(t, games.RoleZaun, role)
	return g
}

func move(direction string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"direction":%q}`, direction))
}

func TestGame_RunToExit(t *testing.T) {
	g := newActiveGame(t)

	for i, dir := range exitPath {
		res := g.Apply("conn-b", ActionMove, move(dir))
		require.True(t, res.OK, "move %d (%s): %s", i+1, dir, res.Message)
		if i < len(exitPath)-1 {
			assert.False(t, res.Completed)
			assert.Equal(t, fmt.Sprintf("Moved %s", dir), res.Message)
		} else {
			assert.True(t, res.Completed)
			assert.Equal(t, "The runner reached the exit in 12 steps", res.Message)
		}
	}

	summary := g.Summary()
	assert.Equal(t, "completed", summary.Phase)
	assert.Equal(t, 440, summary.Score, "500 base minus 12 steps at 5 each")

	res := g.Apply("conn-b", ActionMove, move("north"))
	assert.False(t, res.OK)
	assert.Equal(t, "The game is already complete", res.Message)
}

func TestGame_WallBumpLeavesStateUnchanged(t *testing.T) {
	g := newActiveGame(t)

	beforeRunner := g.View("conn-b")
	beforeMap := g.View("conn-a")
	beforeSummary := g.Summary()

	res := g.Apply("conn-b", ActionMove, move("North"))
	require.False(t, res.OK)
	assert.Equal(t, "A wall blocks the way north", res.Message)

	assert.Equal(t, beforeRunner, g.View("conn-b"))
	assert.Equal(t, beforeMap, g.View("conn-a"))
	assert.Equal(t, beforeSummary, g.Summary())
}

func TestGame_BumpsLowerTheFinalScore(t *testing.T) {
	g := newActiveGame(t)

	require.False(t, g.Apply("conn-b", ActionMove, move("north")).OK)
	for _, dir := range exitPath {
		require.True(t, g.Apply("conn-b", ActionMove, move(dir)).OK)
	}
	assert.Equal(t, 425, g.Summary().Score, "one bump costs 15")
}

func TestGame_Validation(t *testing.T) {
	g := newActiveGame(t)

	tests := []struct {
		name    string
		connID  string
		action  string
		data    json.RawMessage
		message string
	}{
		{"map holder cannot move", "conn-a", ActionMove, move("east"), "Only the runner can move"},
		{"unknown direction", "conn-b", ActionMove, move("up"), "Unknown direction: up"},
		{"malformed payload", "conn-b", ActionMove, json.RawMessage(`{`), "Malformed move payload"},
		{"unknown action", "conn-b", "dig", nil, "Unknown action: dig"},
		{"stranger", "conn-x", ActionMove, move("east"), "You have not joined this game"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.View("conn-b")
			res := g.Apply(tt.connID, tt.action, tt.data)
			assert.False(t, res.OK)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, before, g.View("conn-b"))
		})
	}
}

func TestGame_Views(t *testing.T) {
	g := newActiveGame(t)
	require.True(t, g.Apply("conn-b", ActionMove, move("east")).OK)

	mapView := g.View("conn-a").(MapView)
	assert.Equal(t, "piltover", mapView.Role)
	assert.Equal(t, defaultLayout, mapView.Layout)
	assert.Equal(t, point{Row: 1, Col: 2}, mapView.Runner)
	assert.Equal(t, point{Row: 7, Col: 7}, mapView.Exit)

	runner := g.View("conn-b").(RunnerView)
	assert.Equal(t, "zaun", runner.Role)
	assert.Equal(t, point{Row: 1, Col: 2}, runner.Position)
	assert.Equal(t, 1, runner.Steps)

	assert.Equal(t, RunnerView{}, g.View("conn-x"))
}

func TestGame_HintPointsAlongShortestPath(t *testing.T) {
	g := newActiveGame(t)

	hint, remaining, ok := g.Hint("conn-b")
	require.True(t, ok)
	assert.Equal(t, "Head east", hint)
	assert.Equal(t, 2, remaining)

	_, _, ok = g.Hint("conn-x")
	assert.False(t, ok, "strangers get nothing")

	_, _, ok = g.Hint("conn-b")
	require.True(t, ok)
	_, _, ok = g.Hint("conn-b")
	require.True(t, ok)
	_, _, ok = g.Hint("conn-b")
	assert.False(t, ok, "budget exhausted")
}

func TestGame_HintPenaltyAppliesToScore(t *testing.T) {
	g := newActiveGame(t)

	_, _, ok := g.Hint("conn-b")
	require.True(t, ok)
	for _, dir := range exitPath {
		require.True(t, g.Apply("conn-b", ActionMove, move(dir)).OK)
	}
	assert.Equal(t, 365, g.Summary().Score, "one hint costs 75")
}

func TestGame_ResetReturnsRunnerToStart(t *testing.T) {
	g := newActiveGame(t)
	require.True(t, g.Apply("conn-b", ActionMove, move("east")).OK)
	require.True(t, g.Apply("conn-b", ActionMove, move("east")).OK)

	g.Reset()

	runner := g.View("conn-b").(RunnerView)
	assert.Equal(t, point{Row: 1, Col: 1}, runner.Position)
	assert.Equal(t, 0, runner.Steps)

	summary := g.Summary()
	assert.Equal(t, "active", summary.Phase)
	assert.Equal(t, 0, summary.Score)
	assert.Equal(t, "0 steps", summary.Progress)
}
