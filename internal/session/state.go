package session

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"golden-casino/internal/casino"
	"golden-casino/internal/game"
	"golden-casino/internal/model"
	"golden-casino/internal/player"
	"golden-casino/internal/snapshot"
)

// Snapshot encodes the whole session: ledger, lock state of every room,
// current room, mode and recent history.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.Snapshot{
		Player: model.SnapshotPlayer{
			Name:        s.player.Name(),
			Balance:     s.player.Balance(),
			JackpotWins: s.player.JackpotWins(),
		},
		Mode:        s.mode,
		CurrentRoom: s.current,
		History:     append([]model.Round(nil), s.history...),
	}
	for _, r := range s.rooms.Rooms() {
		snap.Rooms = append(snap.Rooms, model.RoomState{Name: r.Name, Locked: r.Locked})
	}
	return snapshot.Encode(snap)
}

// Restore replaces the whole session with a snapshot. On any error the
// session is left exactly as it was.
func (s *Session) Restore(data []byte) error {
	if len(data) == 0 {
		return ErrSnapshotUnavailable
	}
	snap, err := snapshot.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotCorrupt, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.buildMap()
	if err != nil {
		return err
	}
	if err := applyLocks(rooms, snap.Rooms); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotCorrupt, err)
	}
	current, ok := rooms.Room(snap.CurrentRoom)
	if !ok {
		return fmt.Errorf("%w: unknown current room %q", ErrSnapshotCorrupt, snap.CurrentRoom)
	}
	if current.Locked {
		return fmt.Errorf("%w: current room %q is locked", ErrSnapshotCorrupt, current.Name)
	}
	if !snap.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrSnapshotCorrupt, snap.Mode)
	}
	p, err := player.Restore(snap.Player.Name, snap.Player.Balance, snap.Player.JackpotWins)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotCorrupt, err)
	}

	history := snap.History
	if over := len(history) - s.opts.HistorySize; over > 0 {
		history = history[over:]
	}
	for i := range history {
		history[i].Player = p.Name()
	}

	s.player = p
	s.rooms = rooms
	s.current = snap.CurrentRoom
	s.mode = snap.Mode
	s.history = append([]model.Round(nil), history...)

	log.Debug().
		Str("player", p.Name()).
		Int64("balance", p.Balance()).
		Str("room", s.current).
		Msg("Session restored")
	return nil
}

// applyLocks replays saved lock states onto a freshly built map. The saved
// room set must match the map exactly, and a room that starts unlocked can
// never be saved as locked.
func applyLocks(rooms *casino.Map, states []model.RoomState) error {
	seen := make(map[string]bool, len(states))
	for _, st := range states {
		r, ok := rooms.Room(st.Name)
		if !ok {
			return fmt.Errorf("unknown room %q", st.Name)
		}
		if seen[st.Name] {
			return fmt.Errorf("room %q listed twice", st.Name)
		}
		seen[st.Name] = true

		switch {
		case st.Locked && !r.Locked:
			return fmt.Errorf("room %q cannot be locked", st.Name)
		case !st.Locked && r.Locked:
			if err := rooms.MarkUnlocked(st.Name); err != nil {
				return err
			}
		}
	}
	if len(seen) != len(rooms.Rooms()) {
		return errors.New("saved rooms do not cover the casino")
	}
	return nil
}

// Balance returns the player's coins.
func (s *Session) Balance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Balance()
}

// JackpotWins returns the player's jackpot count.
func (s *Session) JackpotWins() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.JackpotWins()
}

// PlayerName returns the player's name.
func (s *Session) PlayerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Name()
}

// Mode returns the bankruptcy mode.
func (s *Session) Mode() model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode changes the bankruptcy mode. Unknown modes are treated as normal.
func (s *Session) SetMode(m model.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !m.Valid() {
		m = model.ModeNormal
	}
	s.mode = m
}

// CurrentRoom returns a copy of the room the player is in.
func (s *Session) CurrentRoom() casino.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, _ := s.rooms.Room(s.current)
	return r
}

// CurrentDetails renders the current room.
func (s *Session) CurrentDetails() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _ := s.rooms.Details(s.current)
	return d
}

// Rooms returns every room with its lock state, in floor order.
func (s *Session) Rooms() []casino.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.Rooms()
}

// CurrentGame returns the game of the current room, if any.
func (s *Session) CurrentGame() (game.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.currentGame()
	return g, err == nil
}

// History returns the most recent rounds, oldest first.
func (s *Session) History() []model.Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Round(nil), s.history...)
}
