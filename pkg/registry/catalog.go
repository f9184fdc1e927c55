package registry

import (
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/alchemy"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/maze"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/runelock"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/signals"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/tictactoe"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/games/wordguess"
)

// Catalog is the registry-of-registries keyed by variant tag. It is
// constructed once at process start and injected into the dispatcher;
// there is no package-level instance.
type Catalog struct {
	registries map[games.Variant]*Registry
}

// NewCatalog builds a catalog from explicit factories. Tests inject
// fake variants through this.
func NewCatalog(factories map[games.Variant]games.Factory) *Catalog {
	c := &Catalog{registries: make(map[games.Variant]*Registry, len(factories))}
	for variant, factory := range factories {
		c.registries[variant] = New(factory)
	}
	return c
}

// DefaultFactories returns the factory set of all six shipped variants.
func DefaultFactories() map[games.Variant]games.Factory {
	return map[games.Variant]games.Factory{
		games.VariantRuneLock:  runelock.New,
		games.VariantWordGuess: wordguess.New,
		games.VariantSignals:   signals.New,
		games.VariantMaze:      maze.New,
		games.VariantAlchemy:   alchemy.New,
		games.VariantTicTacToe: tictactoe.New,
	}
}

// NewDefaultCatalog builds a catalog with all shipped variants.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultFactories())
}

// Registry returns the registry for a variant tag.
func (c *Catalog) Registry(variant games.Variant) (*Registry, bool) {
	r, ok := c.registries[variant]
	return r, ok
}

// ForEach visits every variant registry.
func (c *Catalog) ForEach(fn func(variant games.Variant, r *Registry)) {
	for variant, r := range c.registries {
		fn(variant, r)
	}
}
