package game

import (
	"fmt"
	"strconv"
	"strings"

	"golden-casino/internal/player"
)

// CheckStake validates a bet against the table minimum and the purse, and
// makes sure the best payout, bet*maxMultiplier, still fits in the purse
// once the stake is gone. It never changes the balance.
func CheckStake(p *player.Player, minBet, bet, maxMultiplier int64) error {
	if bet < minBet || bet <= 0 {
		return fmt.Errorf("%w: the minimum bet is %d coins", ErrBetTooLow, minBet)
	}
	if !p.CanAfford(bet) {
		return fmt.Errorf("%w: you have %d coins", player.ErrInsufficientFunds, p.Balance())
	}
	// bet*m must fit in headroom+bet, the room left after the debit
	if maxMultiplier > 1 {
		if limit := p.Headroom() / (maxMultiplier - 1); bet > limit {
			return fmt.Errorf("%w: the most you can bet here is %d coins", ErrBetTooHigh, limit)
		}
	}
	return nil
}

// Settle credits bet*multiplier back to p and classifies the round.
// The stake must already have been debited. A multiplier of 0 is a loss,
// 1 refunds the stake, anything above is a win.
func Settle(p *player.Player, bet, multiplier int64, jackpot bool) *Result {
	payout := bet * multiplier
	if payout > 0 {
		// CheckStake keeps payout within the headroom, Credit cannot fail
		_ = p.Credit(payout)
	}
	if jackpot {
		p.RecordJackpot()
	}

	outcome := OutcomeLoss
	switch {
	case multiplier > 1:
		outcome = OutcomeWin
	case multiplier == 1:
		outcome = OutcomeDraw
	}

	return &Result{
		Outcome: outcome,
		Bet:     bet,
		Payout:  payout,
		Delta:   payout - bet,
		Jackpot: jackpot,
		Details: map[string]any{"bet": bet, "multiplier": multiplier},
	}
}

// StringParam extracts a trimmed string choice from params.
func StringParam(params map[string]any, key string) (string, bool) {
	if params == nil {
		return "", false
	}
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// IntParam extracts an integer choice from params. Numeric strings are
// accepted since front-ends pass raw user input through.
func IntParam(params map[string]any, key string) (int, bool) {
	if params == nil {
		return 0, false
	}
	v, ok := params[key]
	if !ok {
		return 0, false
	}

	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val != float64(int(val)) {
			return 0, false
		}
		return int(val), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
