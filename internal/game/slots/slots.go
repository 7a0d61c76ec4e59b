// Package slots implements the five-reel slot machine.
package slots

import (
	"context"
	"fmt"
	"strings"

	"golden-casino/internal/game"
	"golden-casino/internal/player"
)

const (
	// DefaultMinBet is the table minimum for the slot machine
	DefaultMinBet = 2

	// Reels is the number of symbols drawn per spin
	Reels = 5
)

// Symbols is the reel alphabet. Each reel draws one uniformly, with replacement.
var Symbols = []string{"🍒", "🍋", "🔔", "⭐", "7️⃣"}

// Payout multipliers by number of distinct symbols on the reels.
const (
	JackpotMultiplier   = 10 // all five identical
	TwoKindMultiplier   = 5  // exactly two distinct symbols
	ThreeKindMultiplier = 2  // exactly three distinct symbols
)

// Slots implements game.Game for the slot machine.
type Slots struct {
	minBet int64
}

// Config holds configuration for the slot machine.
type Config struct {
	MinBet int64
}

// New creates a slot machine with the given configuration.
func New(cfg *Config) *Slots {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &Slots{minBet: minBet}
}

// Name returns the game's display name.
func (s *Slots) Name() string {
	return "Slots"
}

// Command returns the game's identifier.
func (s *Slots) Command() string {
	return "slots"
}

// Description returns a brief description of the game.
func (s *Slots) Description() string {
	return "Spin five reels: all five alike pays 10x, two symbols 5x, three symbols 2x."
}

// MinBet returns the table minimum.
func (s *Slots) MinBet() int64 {
	return s.minBet
}

// Choices returns nil; the slot machine needs no choice.
func (s *Slots) Choices() *game.ChoiceSpec {
	return nil
}

// ValidateBet checks the bet against the table minimum.
func (s *Slots) ValidateBet(bet int64, params map[string]any) error {
	if bet < s.minBet || bet <= 0 {
		return fmt.Errorf("%w: the minimum bet for Slots is %d coins", game.ErrBetTooLow, s.minBet)
	}
	return nil
}

// Play spins the reels once.
func (s *Slots) Play(ctx context.Context, p *player.Player, bet int64, rng game.Rand, params map[string]any) (*game.Result, error) {
	if err := s.ValidateBet(bet, params); err != nil {
		return nil, err
	}
	if err := game.CheckStake(p, s.minBet, bet, JackpotMultiplier); err != nil {
		return nil, err
	}
	if err := p.Debit(bet); err != nil {
		return nil, err
	}

	var reels [Reels]int
	for i := range reels {
		reels[i] = rng.IntN(len(Symbols))
	}

	multiplier, jackpot := Evaluate(reels)
	res := game.Settle(p, bet, multiplier, jackpot)

	display := Display(reels)
	switch multiplier {
	case JackpotMultiplier:
		res.Description = fmt.Sprintf("The reels are spinning... %s\n\nJackpot! All symbols matched. You win %d coins!", display, res.Payout)
	case TwoKindMultiplier:
		res.Description = fmt.Sprintf("The reels are spinning... %s\n\nYou win! Only two different symbols. You win %d coins!", display, res.Payout)
	case ThreeKindMultiplier:
		res.Description = fmt.Sprintf("The reels are spinning... %s\n\nYou win! At least two symbols matched. You win %d coins!", display, res.Payout)
	default:
		res.Description = fmt.Sprintf("The reels are spinning... %s\n\nTough luck! Try again - maybe it will work next time.", display)
	}
	res.Details["reels"] = reels
	res.Details["distinct"] = Distinct(reels)
	return res, nil
}

// Distinct counts the distinct symbols on the reels.
func Distinct(reels [Reels]int) int {
	seen := make(map[int]struct{}, Reels)
	for _, r := range reels {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// Evaluate returns the payout multiplier for a spin and whether it is a
// jackpot. The cases are mutually exclusive on the distinct symbol count:
//   - 1 distinct: 10x, jackpot
//   - 2 distinct: 5x
//   - 3 distinct: 2x
//   - 4 or 5 distinct: lose
func Evaluate(reels [Reels]int) (multiplier int64, jackpot bool) {
	switch Distinct(reels) {
	case 1:
		return JackpotMultiplier, true
	case 2:
		return TwoKindMultiplier, false
	case 3:
		return ThreeKindMultiplier, false
	default:
		return 0, false
	}
}

// Display renders the reels as symbols separated by bars.
func Display(reels [Reels]int) string {
	parts := make([]string, len(reels))
	for i, r := range reels {
		parts[i] = Symbols[r]
	}
	return strings.Join(parts, " | ")
}
