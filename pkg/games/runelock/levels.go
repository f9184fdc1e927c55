package runelock

import "github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/rules"

const (
	// VectorWidth represents the number of rune switches on the panel
	VectorWidth = 8
	// MinLevel and MaxLevel bound the difficulty selection
	MinLevel = 1
	MaxLevel = 4
)

// Level is one statically authored difficulty: its ward rules and the
// designed satisfying assignment. The rule set never changes at
// runtime.
type Level struct {
	Number   int
	Name     string
	Rules    []rules.Rule
	Solution []bool
}

func boolVec(trueIndices ...int) []bool {
	v := make([]bool, VectorWidth)
	for _, i := range trueIndices {
		v[i] = true
	}
	return v
}

// Levels holds the four authored difficulties, indexed by Number-1.
// Every level carries a whole-panel exact-count ward, so flipping any
// single rune of a satisfying assignment violates at least one rule.
var Levels = []Level{
	{
		Number: 1,
		Name:   "Apprentice Seal",
		Rules: []rules.Rule{
			{ID: "w1", Kind: rules.KindExactCount, Indices: []int{0, 1, 2}, Count: 2,
				Text: "Exactly two of runes 1, 2 and 3 are lit."},
			{ID: "w2", Kind: rules.KindImplication, If: 0, IfState: true, Then: 3, ThenState: true,
				Text: "If rune 1 is lit, rune 4 must be lit."},
			{ID: "w3", Kind: rules.KindExactlyOne, Indices: []int{4, 6},
				Text: "Exactly one of runes 5 and 7 is lit."},
			{ID: "w4", Kind: rules.KindAllEqual, Indices: []int{2, 5, 7},
				Text: "Runes 3, 6 and 8 all share the same state."},
			{ID: "w5", Kind: rules.KindExactCount, Indices: []int{0, 1, 2, 3, 4, 5, 6, 7}, Count: 4,
				Text: "Exactly four runes are lit in total."},
			{ID: "w6", Kind: rules.KindImplication, If: 7, IfState: false, Then: 1, ThenState: true,
				Text: "If rune 8 is dark, rune 2 must be lit."},
		},
		Solution: boolVec(0, 1, 3, 6),
	},
	{
		Number: 2,
		Name:   "Journeyman Seal",
		Rules: []rules.Rule{
			{ID: "w1", Kind: rules.KindExactCount, Indices: []int{0, 1, 2, 3, 4, 5, 6, 7}, Count: 4,
				Text: "Exactly four runes are lit in total."},
			{ID: "w2", Kind: rules.KindImplication, If: 1, IfState: true, Then: 0, ThenState: false,
				Text: "If rune 2 is lit, rune 1 must be dark."},
			{ID: "w3", Kind: rules.KindAllEqual, Indices: []int{0, 3, 4, 6},
				Text: "Runes 1, 4, 5 and 7 all share the same state."},
			{ID: "w4", Kind: rules.KindExactlyOne, Indices: []int{5, 6},
				Text: "Exactly one of runes 6 and 7 is lit."},
			{ID: "w5", Kind: rules.KindExactCount, Indices: []int{1, 2, 3}, Count: 2,
				Text: "Exactly two of runes 2, 3 and 4 are lit."},
			{ID: "w6", Kind: rules.KindImplication, If: 4, IfState: false, Then: 7, ThenState: true,
				Text: "If rune 5 is dark, rune 8 must be lit."},
			{ID: "w7", Kind: rules.KindExactlyOne, Indices: []int{2, 3},
				Text: "Exactly one of runes 3 and 4 is lit."},
		},
		Solution: boolVec(1, 2, 5, 7),
	},
	{
		Number: 3,
		Name:   "Artificer Seal",
		Rules: []rules.Rule{
			{ID: "w1", Kind: rules.KindExactCount, Indices: []int{0, 1, 2, 3, 4, 5, 6, 7}, Count: 5,
				Text: "Exactly five runes are lit in total."},
			{ID: "w2", Kind: rules.KindAllEqual, Indices: []int{2, 3, 4},
				Text: "Runes 3, 4 and 5 all share the same state."},
			{ID: "w3", Kind: rules.KindImplication, If: 0, IfState: true, Then: 1, ThenState: false,
				Text: "If rune 1 is lit, rune 2 must be dark."},
			{ID: "w4", Kind: rules.KindExactlyOne, Indices: []int{0, 6},
				Text: "Exactly one of runes 1 and 7 is lit."},
			{ID: "w5", Kind: rules.KindExactCount, Indices: []int{1, 6, 7}, Count: 0,
				Text: "None of runes 2, 7 and 8 are lit."},
			{ID: "w6", Kind: rules.KindImplication, If: 5, IfState: true, Then: 2, ThenState: true,
				Text: "If rune 6 is lit, rune 3 must be lit."},
			{ID: "w7", Kind: rules.KindExactlyOne, Indices: []int{5, 7},
				Text: "Exactly one of runes 6 and 8 is lit."},
			{ID: "w8", Kind: rules.KindExactCount, Indices: []int{0, 2, 3, 7}, Count: 3,
				Text: "Exactly three of runes 1, 3, 4 and 8 are lit."},
		},
		Solution: boolVec(0, 2, 3, 4, 5),
	},
	{
		Number: 4,
		Name:   "Master Seal",
		Rules: []rules.Rule{
			{ID: "w1", Kind: rules.KindExactCount, Indices: []int{0, 1, 2, 3, 4, 5, 6, 7}, Count: 3,
				Text: "Exactly three runes are lit in total."},
			{ID: "w2", Kind: rules.KindExactlyOne, Indices: []int{0, 1, 2},
				Text: "Exactly one of runes 1, 2 and 3 is lit."},
			{ID: "w3", Kind: rules.KindImplication, If: 6, IfState: true, Then: 5, ThenState: true,
				Text: "If rune 7 is lit, rune 6 must be lit."},
			{ID: "w4", Kind: rules.KindAllEqual, Indices: []int{1, 2, 3, 4},
				Text: "Runes 2, 3, 4 and 5 all share the same state."},
			{ID: "w5", Kind: rules.KindExactlyOne, Indices: []int{5, 7},
				Text: "Exactly one of runes 6 and 8 is lit."},
			{ID: "w6", Kind: rules.KindImplication, If: 0, IfState: true, Then: 7, ThenState: false,
				Text: "If rune 1 is lit, rune 8 must be dark."},
			{ID: "w7", Kind: rules.KindExactCount, Indices: []int{5, 6, 7}, Count: 2,
				Text: "Exactly two of runes 6, 7 and 8 are lit."},
			{ID: "w8", Kind: rules.KindImplication, If: 3, IfState: false, Then: 6, ThenState: true,
				Text: "If rune 4 is dark, rune 7 must be lit."},
		},
		Solution: boolVec(0, 5, 6),
	},
}

// LevelByNumber returns the authored level for a difficulty number.
func LevelByNumber(n int) (Level, bool) {
	if n < MinLevel || n > MaxLevel {
		return Level{}, false
	}
	return Levels[n-1], true
}
