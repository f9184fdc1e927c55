package alchemy

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func add(ingredient string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"ingredient":%q}`, ingredient))
}

func TestGame_BrewInOrder(t *testing.T) {
	g := newActiveGame(t)

	for i, ingredient := range defaultRecipe {
		res := g.Apply("conn-b", ActionAdd, add(ingredient))
		require.True(t, res.OK, "step %d (%s): %s", i+1, ingredient, res.Message)
		if i < len(defaultRecipe)-1 {
			assert.False(t, res.Completed)
			assert.Equal(t, fmt.Sprintf("Added %s, step %d of %d", ingredient, i+1, len(defaultRecipe)), res.Message)
		} else {
			assert.True(t, res.Completed)
			assert.Equal(t, "The brew settles into a steady glow", res.Message)
		}
	}

	summary := g.Summary()
	assert.Equal(t, "completed", summary.Phase)
	assert.Equal(t, 450, summary.Score, "six clean steps at 75 each")
	assert.Equal(t, "6/6 steps", summary.Progress)

	res := g.Apply("conn-b", ActionAdd, add("ember salt"))
	assert.False(t, res.OK)
	assert.Equal(t, "The game is already complete", res.Message)
}

func TestGame_WrongIngredientLeavesStateUnchanged(t *testing.T) {
	g := newActiveGame(t)

	beforeBench := g.View("conn-b")
	beforeRecipe := g.View("conn-a")
	beforeSummary := g.Summary()

	res := g.Apply("conn-b", ActionAdd, add("Ember Salt"))
	require.False(t, res.OK)
	assert.Equal(t, "Ember Salt is not the next ingredient, the brew hisses", res.Message)

	assert.Equal(t, beforeBench, g.View("conn-b"))
	assert.Equal(t, beforeRecipe, g.View("conn-a"))
	assert.Equal(t, beforeSummary, g.Summary())
}

func TestGame_SpillsLowerTheFinalScore(t *testing.T) {
	g := newActiveGame(t)

	require.False(t, g.Apply("conn-b", ActionAdd, add("sump water")).OK)
	require.False(t, g.Apply("conn-b", ActionAdd, add("gray root")).OK)
	for _, ingredient := range defaultRecipe {
		require.True(t, g.Apply("conn-b", ActionAdd, add(ingredient)).OK)
	}
	assert.Equal(t, 410, g.Summary().Score, "two spills cost 20 each")
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
		{"recipe reader cannot add", "conn-a", ActionAdd, add("gray root"), "Only the bench worker can add ingredients"},
		{"not on the shelf", "conn-b", ActionAdd, add("hexcore shard"), "There is no hexcore shard on the shelf"},
		{"malformed payload", "conn-b", ActionAdd, json.RawMessage(`{`), "Malformed ingredient payload"},
		{"unknown action", "conn-b", "stir", nil, "Unknown action: stir"},
		{"stranger", "conn-x", ActionAdd, add("gray root"), "You have not joined this game"},
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
	require.True(t, g.Apply("conn-b", ActionAdd, add("shimmer essence")).OK)

	recipe := g.View("conn-a").(RecipeView)
	assert.Equal(t, "piltover", recipe.Role)
	assert.Equal(t, defaultRecipe, recipe.Recipe)
	assert.Equal(t, 1, recipe.Cursor)

	bench := g.View("conn-b").(BenchView)
	assert.Equal(t, "zaun", bench.Role)
	assert.Equal(t, defaultShelf, bench.Shelf)
	assert.Equal(t, 1, bench.StepsDone)
	assert.Equal(t, 6, bench.StepCount)

	assert.Equal(t, BenchView{}, g.View("conn-x"))
}

func TestGame_HintNamesNextIngredient(t *testing.T) {
	g := newActiveGame(t)

	hint, remaining, ok := g.Hint("conn-b")
	require.True(t, ok)
	assert.Equal(t, "The brew wants shimmer essence next", hint)
	assert.Equal(t, 2, remaining)

	require.True(t, g.Apply("conn-b", ActionAdd, add("shimmer essence")).OK)

	hint, _, ok = g.Hint("conn-b")
	require.True(t, ok)
	assert.Equal(t, "The brew wants gray root next", hint)

	_, _, ok = g.Hint("conn-x")
	assert.False(t, ok, "strangers get nothing")

	_, _, ok = g.Hint("conn-b")
	require.True(t, ok)
	_, _, ok = g.Hint("conn-b")
	assert.False(t, ok, "budget exhausted")
}

func TestGame_HintPenaltyAppliesToScore(t *testing.T) {
	g := newActiveGame(t)

	_, _, ok := g.Hint("conn-b")
	require.True(t, ok)
	for _, ingredient := range defaultRecipe {
		require.True(t, g.Apply("conn-b", ActionAdd, add(ingredient)).OK)
	}
	assert.Equal(t, 410, g.Summary().Score, "one hint costs 40")
}

func TestGame_ResetEmptiesTheBrew(t *testing.T) {
	g := newActiveGame(t)
	require.True(t, g.Apply("conn-b", ActionAdd, add("shimmer essence")).OK)
	require.True(t, g.Apply("conn-b", ActionAdd, add("gray root")).OK)

	g.Reset()

	summary := g.Summary()
	assert.Equal(t, "active", summary.Phase)
	assert.Equal(t, 0, summary.Score)
	assert.Equal(t, "0/6 steps", summary.Progress)
	assert.Equal(t, games.HintBudget, summary.HintsLeft)
}
