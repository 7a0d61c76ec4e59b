// Package poker implements the hand-strength poker table. Hands are ranked
// by a single strength number from 1 to 100.
package poker

import (
	"context"
	"fmt"

	"golden-casino/internal/game"
	"golden-casino/internal/player"
)

const (
	// DefaultMinBet is the table minimum for poker
	DefaultMinBet = 15

	// WeakestHand and StrongestHand bound hand strength.
	WeakestHand   = 1
	StrongestHand = 100

	// WinMultiplier is paid when the player's hand is stronger.
	WinMultiplier = 4
)

// Game implements game.Game for poker.
type Game struct {
	minBet int64
}

// Config holds configuration for the poker table.
type Config struct {
	MinBet int64
}

// New creates a poker table with the given configuration.
func New(cfg *Config) *Game {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &Game{minBet: minBet}
}

// Name returns the game's display name.
func (g *Game) Name() string {
	return "Poker"
}

// Command returns the game's identifier.
func (g *Game) Command() string {
	return "poker"
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Your hand against the dealer's, strength 1 to 100. The stronger hand pays 4x, a tie refunds the stake."
}

// MinBet returns the table minimum.
func (g *Game) MinBet() int64 {
	return g.minBet
}

// Choices returns nil; poker needs no choice.
func (g *Game) Choices() *game.ChoiceSpec {
	return nil
}

// ValidateBet checks the bet against the table minimum.
func (g *Game) ValidateBet(bet int64, params map[string]any) error {
	if bet < g.minBet || bet <= 0 {
		return fmt.Errorf("%w: the minimum bet for Poker is %d coins", game.ErrBetTooLow, g.minBet)
	}
	return nil
}

// Play deals the player's hand, then the dealer's.
func (g *Game) Play(ctx context.Context, p *player.Player, bet int64, rng game.Rand, params map[string]any) (*game.Result, error) {
	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}
	if err := game.CheckStake(p, g.minBet, bet, WinMultiplier); err != nil {
		return nil, err
	}
	if err := p.Debit(bet); err != nil {
		return nil, err
	}

	playerHand := game.IntRange(rng, WeakestHand, StrongestHand)
	dealerHand := game.IntRange(rng, WeakestHand, StrongestHand)

	res := game.Settle(p, bet, Evaluate(playerHand, dealerHand), false)

	hands := fmt.Sprintf("Your hand: %d, dealer's hand: %d", playerHand, dealerHand)
	switch res.Outcome {
	case game.OutcomeWin:
		res.Description = fmt.Sprintf("%s\n\nYou won! Your reward: %d coins.", hands, res.Payout)
	case game.OutcomeDraw:
		res.Description = hands + "\n\nDraw! Your stake will be refunded."
	default:
		res.Description = hands + "\n\nThe dealer hand was better. Try again."
	}
	res.Details["player"] = playerHand
	res.Details["dealer"] = dealerHand
	return res, nil
}

// Evaluate returns the multiplier for a pair of hands.
func Evaluate(playerHand, dealerHand int) int64 {
	switch {
	case playerHand > dealerHand:
		return WinMultiplier
	case playerHand == dealerHand:
		return 1
	default:
		return 0
	}
}
