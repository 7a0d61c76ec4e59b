// Package catalog assembles the casino's six games into a registry.
package catalog

import (
	"fmt"

	"golden-casino/internal/game"
	"golden-casino/internal/game/baccarat"
	"golden-casino/internal/game/blackjack"
	"golden-casino/internal/game/horserace"
	"golden-casino/internal/game/poker"
	"golden-casino/internal/game/roulette"
	"golden-casino/internal/game/slots"
)

// MinBets overrides table minimums by game command. Missing or
// non-positive entries keep the game's default.
type MinBets map[string]int64

// New registers every casino game in a fresh registry.
func New(minBets MinBets) (*game.Registry, error) {
	r := game.NewRegistry()
	games := []game.Game{
		slots.New(&slots.Config{MinBet: minBets["slots"]}),
		blackjack.New(&blackjack.Config{MinBet: minBets["blackjack"]}),
		horserace.New(&horserace.Config{MinBet: minBets["horserace"]}),
		baccarat.New(&baccarat.Config{MinBet: minBets["baccarat"]}),
		poker.New(&poker.Config{MinBet: minBets["poker"]}),
		roulette.New(&roulette.Config{MinBet: minBets["roulette"]}),
	}
	for _, g := range games {
		if err := r.Register(g); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", g.Name(), err)
		}
	}
	return r, nil
}

// Default returns the catalog with standard table minimums.
func Default() *game.Registry {
	r, err := New(nil)
	if err != nil {
		panic(err)
	}
	return r
}
