// Package player implements the player's coin ledger.
package player

import (
	"errors"
	"fmt"
	"math"
)

// DefaultStartingBalance is the purse a new player walks in with.
const DefaultStartingBalance = 40

// Errors for ledger operations.
var (
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrInsufficientFunds = errors.New("not enough coins")
	ErrBalanceOverflow   = errors.New("balance would overflow")
)

// Player owns a non-negative coin balance and a jackpot counter.
// It is not safe for concurrent use; the session serializes access.
type Player struct {
	name        string
	balance     int64
	jackpotWins int64
}

// New creates a player with the given starting balance.
// A negative starting balance is treated as zero.
func New(name string, startingBalance int64) *Player {
	if startingBalance < 0 {
		startingBalance = 0
	}
	return &Player{
		name:    name,
		balance: startingBalance,
	}
}

// Name returns the player's name.
func (p *Player) Name() string {
	return p.name
}

// Balance returns the current coin balance.
func (p *Player) Balance() int64 {
	return p.balance
}

// JackpotWins returns how many jackpots the player has hit.
func (p *Player) JackpotWins() int64 {
	return p.jackpotWins
}

// Credit adds amount coins to the balance.
func (p *Player) Credit(amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if amount > p.Headroom() {
		return fmt.Errorf("%w: have %d, adding %d", ErrBalanceOverflow, p.balance, amount)
	}
	p.balance += amount
	return nil
}

// Debit removes amount coins from the balance.
// The balance is left unchanged when the debit fails.
func (p *Player) Debit(amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if amount > p.balance {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, p.balance, amount)
	}
	p.balance -= amount
	return nil
}

// RecordJackpot bumps the jackpot counter.
func (p *Player) RecordJackpot() {
	p.jackpotWins++
}

// Headroom is how many coins can still be credited.
func (p *Player) Headroom() int64 {
	return math.MaxInt64 - p.balance
}

// CanAfford reports whether the balance covers amount.
func (p *Player) CanAfford(amount int64) bool {
	return amount >= 0 && amount <= p.balance
}

// Restore builds a player from persisted fields.
func Restore(name string, balance, jackpotWins int64) (*Player, error) {
	if balance < 0 || jackpotWins < 0 {
		return nil, ErrInvalidAmount
	}
	return &Player{
		name:        name,
		balance:     balance,
		jackpotWins: jackpotWins,
	}, nil
}
