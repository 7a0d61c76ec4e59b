// Package game defines the wagering game interface, the shared play helpers
// and the registry the casino looks games up in.
package game

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golden-casino/internal/player"
)

// Errors shared by all games.
var (
	ErrBetTooLow     = errors.New("bet is below the table minimum")
	ErrBetTooHigh    = errors.New("bet is above what the table can pay")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrUnknownGame   = errors.New("unknown game")
)

// Outcome classifies a finished round.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Result represents the outcome of a game play.
type Result struct {
	Outcome     Outcome        // Win, loss or draw
	Bet         int64          // Stake debited before the draw
	Payout      int64          // Gross amount credited back (0 on a loss)
	Delta       int64          // Net balance change, Payout - Bet
	Jackpot     bool           // Whether the jackpot counter was bumped
	Description string         // Human-readable result description
	Details     map[string]any // Draws and choices, for display and tests
}

// Game defines the interface that all casino games implement.
type Game interface {
	// Name returns the game's display name (e.g., "Slots", "Horse Race")
	Name() string

	// Command returns the identifier rooms and front-ends refer to the game by
	Command() string

	// Description returns a brief description of the rules
	Description() string

	// MinBet returns the table minimum.
	MinBet() int64

	// Choices describes the player choice the game needs before a round,
	// or nil when it needs none.
	Choices() *ChoiceSpec

	// ValidateBet checks the bet and the player's choice without touching any
	// balance. Returns nil if valid.
	ValidateBet(bet int64, params map[string]any) error

	// Play runs one round against p.
	// Parameters:
	//   - ctx: carried for symmetry with front-end handlers
	//   - p: the ledger the stake is taken from and winnings go to
	//   - bet: the amount being wagered
	//   - rng: the draw source
	//   - params: the player's choice (see Choices)
	// A validation failure leaves p untouched.
	Play(ctx context.Context, p *player.Player, bet int64, rng Rand, params map[string]any) (*Result, error)
}

// ChoiceSpec describes the choice a game asks the player for.
type ChoiceSpec struct {
	Param   string   // Key in the params map, e.g. "horse"
	Prompt  string   // Prompt shown to a human
	Options []string // Allowed values; empty when Min/Max apply
	Min     int      // Inclusive numeric lower bound
	Max     int      // Inclusive numeric upper bound
}

// Numeric reports whether the choice is a number in [Min, Max].
func (c *ChoiceSpec) Numeric() bool {
	return len(c.Options) == 0
}

// Parse checks raw player input against the choice and returns its
// canonical form: the option as listed, or the number without padding.
func (c *ChoiceSpec) Parse(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if c.Numeric() {
		n, err := strconv.Atoi(raw)
		if err != nil || n < c.Min || n > c.Max {
			return "", false
		}
		return strconv.Itoa(n), true
	}
	for _, opt := range c.Options {
		if strings.EqualFold(opt, raw) {
			return opt, true
		}
	}
	return "", false
}
