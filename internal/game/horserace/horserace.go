// Package horserace implements the four-horse race.
package horserace

import (
	"context"
	"fmt"
	"strings"

	"golden-casino/internal/game"
	"golden-casino/internal/player"
)

const (
	// DefaultMinBet is the table minimum for the horse race
	DefaultMinBet = 8

	// WinMultiplier is paid when the chosen horse wins.
	WinMultiplier = 3

	// ParamHorse is the params key for the player's horse.
	ParamHorse = "horse"
)

// Horses is the field, in post order.
var Horses = []string{"Blitz", "Donner", "Wind", "Sturm"}

// Game implements game.Game for the horse race.
type Game struct {
	minBet int64
}

// Config holds configuration for the horse race.
type Config struct {
	MinBet int64
}

// New creates a horse race with the given configuration.
func New(cfg *Config) *Game {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &Game{minBet: minBet}
}

// Name returns the game's display name.
func (g *Game) Name() string {
	return "Horse Race"
}

// Command returns the game's identifier.
func (g *Game) Command() string {
	return "horserace"
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Pick one of four horses. If it wins, you get 3x your bet."
}

// MinBet returns the table minimum.
func (g *Game) MinBet() int64 {
	return g.minBet
}

// Choices describes the horse pick.
func (g *Game) Choices() *game.ChoiceSpec {
	return &game.ChoiceSpec{
		Param:   ParamHorse,
		Prompt:  "Choose your horse",
		Options: append([]string(nil), Horses...),
	}
}

// ValidateBet checks the bet and the horse pick.
func (g *Game) ValidateBet(bet int64, params map[string]any) error {
	if bet < g.minBet || bet <= 0 {
		return fmt.Errorf("%w: the minimum bet for Horse Race is %d coins", game.ErrBetTooLow, g.minBet)
	}
	_, err := ExtractHorse(params)
	return err
}

// Play runs one race on the horse named in params.
func (g *Game) Play(ctx context.Context, p *player.Player, bet int64, rng game.Rand, params map[string]any) (*game.Result, error) {
	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}
	if err := game.CheckStake(p, g.minBet, bet, WinMultiplier); err != nil {
		return nil, err
	}
	pick, _ := ExtractHorse(params)
	if err := p.Debit(bet); err != nil {
		return nil, err
	}

	winner := game.Choice(rng, Horses)
	res := game.Settle(p, bet, Evaluate(pick, winner), false)

	race := fmt.Sprintf("The horses are running! You chose %s.\nThe winning horse is: %s", pick, winner)
	if res.Outcome == game.OutcomeWin {
		res.Description = fmt.Sprintf("%s\n\nCongratulations! Your horse has won. You receive %d coins.", race, res.Payout)
	} else {
		res.Description = race + "\n\nUnfortunately your horse didn't win. Good luck next time."
	}
	res.Details["pick"] = pick
	res.Details["winner"] = winner
	return res, nil
}

// Evaluate returns the multiplier for a pick and the winning horse.
func Evaluate(pick, winner string) int64 {
	if pick == winner {
		return WinMultiplier
	}
	return 0
}

// ExtractHorse returns the canonical horse name from params.
// Matching is case-insensitive.
func ExtractHorse(params map[string]any) (string, error) {
	raw, ok := game.StringParam(params, ParamHorse)
	if !ok {
		return "", fmt.Errorf("%w: choose a horse: %s", game.ErrInvalidChoice, strings.Join(Horses, ", "))
	}
	for _, h := range Horses {
		if strings.EqualFold(h, raw) {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not running, choose one of %s", game.ErrInvalidChoice, raw, strings.Join(Horses, ", "))
}
