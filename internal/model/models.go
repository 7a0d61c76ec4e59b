// Package model defines the data models shared by the session, the save
// stores and the front-ends.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mode decides what happens when the player runs out of coins.
type Mode string

// Game modes.
const (
	ModeEasy   Mode = "easy"   // A stipend is paid out on bankruptcy
	ModeNormal Mode = "normal" // Bankruptcy ends the game
)

// ParseMode maps user input to a mode. Anything unrecognised is normal.
func ParseMode(s string) Mode {
	if Mode(s) == ModeEasy {
		return ModeEasy
	}
	return ModeNormal
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeEasy || m == ModeNormal
}

// Round records one finished play of a game.
type Round struct {
	ID        uuid.UUID `db:"id" yaml:"id"`
	Player    string    `db:"player" yaml:"-"`
	Game      string    `db:"game" yaml:"game"`
	Bet       int64     `db:"bet" yaml:"bet"`
	Payout    int64     `db:"payout" yaml:"payout"`
	Delta     int64     `db:"delta" yaml:"delta"`
	Outcome   string    `db:"outcome" yaml:"outcome"`
	Jackpot   bool      `db:"jackpot" yaml:"jackpot,omitempty"`
	CreatedAt time.Time `db:"created_at" yaml:"created_at"`
}

// NewRound stamps a round with a fresh ID and the current time.
func NewRound(game string, bet, payout int64, outcome string, jackpot bool) Round {
	return Round{
		ID:        uuid.New(),
		Game:      game,
		Bet:       bet,
		Payout:    payout,
		Delta:     payout - bet,
		Outcome:   outcome,
		Jackpot:   jackpot,
		CreatedAt: time.Now().UTC(),
	}
}

// String formats the round as a bet history line.
func (r Round) String() string {
	return fmt.Sprintf("%s: %d coins - %s (%+d)", r.Game, r.Bet, r.Outcome, r.Delta)
}

// PlayerNet is a player's net result over all recorded rounds.
type PlayerNet struct {
	Player string `db:"player"`
	Rounds int64  `db:"rounds"`
	Net    int64  `db:"net"`
}

// SnapshotPlayer is the ledger part of a snapshot.
type SnapshotPlayer struct {
	Name        string `yaml:"name"`
	Balance     int64  `yaml:"balance"`
	JackpotWins int64  `yaml:"jackpot_wins"`
}

// RoomState is the lock state of one room in a snapshot.
type RoomState struct {
	Name   string `yaml:"name"`
	Locked bool   `yaml:"locked"`
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	Version     int            `yaml:"version"`
	Player      SnapshotPlayer `yaml:"player"`
	Mode        Mode           `yaml:"mode"`
	CurrentRoom string         `yaml:"current_room"`
	Rooms       []RoomState    `yaml:"rooms"`
	History     []Round        `yaml:"history,omitempty"`
}

// SaveInfo describes one stored save slot.
type SaveInfo struct {
	Slot      string    `db:"slot"`
	Size      int64     `db:"size"`
	UpdatedAt time.Time `db:"updated_at"`
}
