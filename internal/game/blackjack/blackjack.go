// Package blackjack implements the simplified score-off blackjack table.
package blackjack

import (
	"context"
	"fmt"

	"golden-casino/internal/game"
	"golden-casino/internal/player"
)

const (
	// DefaultMinBet is the table minimum for blackjack
	DefaultMinBet = 5

	// LowScore and HighScore bound the scores dealt to both sides.
	LowScore  = 16
	HighScore = 21

	// Blackjack is the bust line.
	Blackjack = 21

	// WinMultiplier is paid on a win. A win also counts as a jackpot.
	WinMultiplier = 2
)

// Game implements game.Game for blackjack.
type Game struct {
	minBet int64
}

// Config holds configuration for the blackjack table.
type Config struct {
	MinBet int64
}

// New creates a blackjack table with the given configuration.
func New(cfg *Config) *Game {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &Game{minBet: minBet}
}

// Name returns the game's display name.
func (g *Game) Name() string {
	return "Blackjack"
}

// Command returns the game's identifier.
func (g *Game) Command() string {
	return "blackjack"
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "You and the dealer each get a score from 16 to 21. Beat the dealer for 2x, tie for your stake back."
}

// MinBet returns the table minimum.
func (g *Game) MinBet() int64 {
	return g.minBet
}

// Choices returns nil; blackjack needs no choice.
func (g *Game) Choices() *game.ChoiceSpec {
	return nil
}

// ValidateBet checks the bet against the table minimum.
func (g *Game) ValidateBet(bet int64, params map[string]any) error {
	if bet < g.minBet || bet <= 0 {
		return fmt.Errorf("%w: the minimum bet for Blackjack is %d coins", game.ErrBetTooLow, g.minBet)
	}
	return nil
}

// Play deals one hand. The player's score is drawn first, then the dealer's.
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

	playerScore := game.IntRange(rng, LowScore, HighScore)
	dealerScore := game.IntRange(rng, LowScore, HighScore)

	multiplier, jackpot := Evaluate(playerScore, dealerScore)
	res := game.Settle(p, bet, multiplier, jackpot)

	scores := fmt.Sprintf("Your score: %d, dealer's score: %d", playerScore, dealerScore)
	switch res.Outcome {
	case game.OutcomeWin:
		res.Description = fmt.Sprintf("%s\n\nBlackjack! You beat the dealer and win %d coins.", scores, res.Payout)
	case game.OutcomeDraw:
		res.Description = scores + "\n\nDraw! Your stake will be refunded."
	default:
		res.Description = scores + "\n\nOh no! The dealer won. Try again."
	}
	res.Details["player"] = playerScore
	res.Details["dealer"] = dealerScore
	return res, nil
}

// Evaluate returns the multiplier for a hand:
//   - player above dealer and not bust: 2x, jackpot
//   - equal scores: stake refunded
//   - otherwise: lose
func Evaluate(playerScore, dealerScore int) (multiplier int64, jackpot bool) {
	switch {
	case playerScore > dealerScore && playerScore <= Blackjack:
		return WinMultiplier, true
	case playerScore == dealerScore:
		return 1, false
	default:
		return 0, false
	}
}
