// Package roulette implements single-number roulette on a 0-36 wheel.
package roulette

import (
	"context"
	"fmt"

	"golden-casino/internal/game"
	"golden-casino/internal/player"
)

const (
	// DefaultMinBet is the table minimum for roulette
	DefaultMinBet = 12

	// LowPocket and HighPocket bound the wheel.
	LowPocket  = 0
	HighPocket = 36

	// WinMultiplier is paid when the ball lands on the chosen number.
	WinMultiplier = 20

	// ParamNumber is the params key for the player's number.
	ParamNumber = "number"
)

// Game implements game.Game for roulette.
type Game struct {
	minBet int64
}

// Config holds configuration for the roulette wheel.
type Config struct {
	MinBet int64
}

// New creates a roulette wheel with the given configuration.
func New(cfg *Config) *Game {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &Game{minBet: minBet}
}

// Name returns the game's display name.
func (g *Game) Name() string {
	return "Roulette"
}

// Command returns the game's identifier.
func (g *Game) Command() string {
	return "roulette"
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Bet on a number from 0 to 36. A hit pays 20x."
}

// MinBet returns the table minimum.
func (g *Game) MinBet() int64 {
	return g.minBet
}

// Choices describes the number pick.
func (g *Game) Choices() *game.ChoiceSpec {
	return &game.ChoiceSpec{
		Param:  ParamNumber,
		Prompt: fmt.Sprintf("Choose a number between %d and %d", LowPocket, HighPocket),
		Min:    LowPocket,
		Max:    HighPocket,
	}
}

// ValidateBet checks the bet and the number pick.
func (g *Game) ValidateBet(bet int64, params map[string]any) error {
	if bet < g.minBet || bet <= 0 {
		return fmt.Errorf("%w: the minimum bet for Roulette is %d coins", game.ErrBetTooLow, g.minBet)
	}
	_, err := ExtractNumber(params)
	return err
}

// Play spins the wheel once.
func (g *Game) Play(ctx context.Context, p *player.Player, bet int64, rng game.Rand, params map[string]any) (*game.Result, error) {
	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}
	if err := game.CheckStake(p, g.minBet, bet, WinMultiplier); err != nil {
		return nil, err
	}
	pick, _ := ExtractNumber(params)
	if err := p.Debit(bet); err != nil {
		return nil, err
	}

	pocket := game.IntRange(rng, LowPocket, HighPocket)
	res := game.Settle(p, bet, Evaluate(pick, pocket), false)

	spin := fmt.Sprintf("The ball is rolling... You bet on %d.\nThe ball lands on: %d", pick, pocket)
	if res.Outcome == game.OutcomeWin {
		res.Description = fmt.Sprintf("%s\n\nJackpot! Your number was hit. You win %d coins.", spin, res.Payout)
	} else {
		res.Description = spin + "\n\nUnfortunately no match. Try again."
	}
	res.Details["pick"] = pick
	res.Details["pocket"] = pocket
	return res, nil
}

// Evaluate returns the multiplier for a pick and the winning pocket.
func Evaluate(pick, pocket int) int64 {
	if pick == pocket {
		return WinMultiplier
	}
	return 0
}

// ExtractNumber returns the player's number from params.
func ExtractNumber(params map[string]any) (int, error) {
	n, ok := game.IntParam(params, ParamNumber)
	if !ok {
		return 0, fmt.Errorf("%w: enter a number between %d and %d", game.ErrInvalidChoice, LowPocket, HighPocket)
	}
	if n < LowPocket || n > HighPocket {
		return 0, fmt.Errorf("%w: %d is not on the wheel, choose between %d and %d", game.ErrInvalidChoice, n, LowPocket, HighPocket)
	}
	return n, nil
}
