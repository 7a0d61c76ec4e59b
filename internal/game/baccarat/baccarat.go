// Package baccarat implements the single-card baccarat table.
package baccarat

import (
	"context"
	"fmt"

	"golden-casino/internal/game"
	"golden-casino/internal/player"
)

const (
	// DefaultMinBet is the table minimum for baccarat
	DefaultMinBet = 10

	// LowCard and HighCard bound the cards dealt to both sides.
	LowCard  = 1
	HighCard = 9

	// WinMultiplier is paid when the player's card beats the bank's.
	WinMultiplier = 2
)

// Game implements game.Game for baccarat.
type Game struct {
	minBet int64
}

// Config holds configuration for the baccarat table.
type Config struct {
	MinBet int64
}

// New creates a baccarat table with the given configuration.
func New(cfg *Config) *Game {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &Game{minBet: minBet}
}

// Name returns the game's display name.
func (g *Game) Name() string {
	return "Baccarat"
}

// Command returns the game's identifier.
func (g *Game) Command() string {
	return "baccarat"
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "One card each for you and the bank, 1 to 9. Higher card pays 2x, a tie refunds the stake."
}

// MinBet returns the table minimum.
func (g *Game) MinBet() int64 {
	return g.minBet
}

// Choices returns nil; baccarat needs no choice.
func (g *Game) Choices() *game.ChoiceSpec {
	return nil
}

// ValidateBet checks the bet against the table minimum.
func (g *Game) ValidateBet(bet int64, params map[string]any) error {
	if bet < g.minBet || bet <= 0 {
		return fmt.Errorf("%w: the minimum bet for Baccarat is %d coins", game.ErrBetTooLow, g.minBet)
	}
	return nil
}

// Play deals one card to the player, then one to the bank.
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

	playerCard := game.IntRange(rng, LowCard, HighCard)
	bankerCard := game.IntRange(rng, LowCard, HighCard)

	res := game.Settle(p, bet, Evaluate(playerCard, bankerCard), false)

	cards := fmt.Sprintf("Your card: %d, bank card: %d", playerCard, bankerCard)
	switch res.Outcome {
	case game.OutcomeWin:
		res.Description = fmt.Sprintf("%s\n\nYou won! Your reward: %d coins.", cards, res.Payout)
	case game.OutcomeDraw:
		res.Description = cards + "\n\nDraw! Your stake will be refunded."
	default:
		res.Description = cards + "\n\nThe bank won. Try again."
	}
	res.Details["player"] = playerCard
	res.Details["banker"] = bankerCard
	return res, nil
}

// Evaluate returns the multiplier for a pair of cards.
func Evaluate(playerCard, bankerCard int) int64 {
	switch {
	case playerCard > bankerCard:
		return WinMultiplier
	case playerCard == bankerCard:
		return 1
	default:
		return 0
	}
}
