package casino

import (
	"errors"
	"fmt"

	"golden-casino/internal/player"
)

// Errors for map operations.
var (
	ErrNoSuchExit      = errors.New("you can't go that way")
	ErrRoomLocked      = errors.New("room is locked")
	ErrAlreadyUnlocked = errors.New("room is already unlocked")
	ErrRoomNotFound    = errors.New("room not found")
)

// Narrator supplies room descriptions.
type Narrator interface {
	TextFor(room string) string
}

// GameNamer resolves a game command to its display name.
type GameNamer func(command string) string

// Map owns every room, keyed by name, in the order they were built.
// It is not safe for concurrent use; the session serializes access.
type Map struct {
	rooms    map[string]*Room
	order    []string
	gameName GameNamer
}

type roomDef struct {
	name   string
	locked bool
	cost   int64
	game   string
	exits  [][2]string // direction, target
}

// floor is the casino layout. The Baccarat Room's horse_race exit leads
// back into the Baccarat Room itself.
var floor = []roomDef{
	{name: Lobby, exits: [][2]string{{"slots", SlotsRoom}}},
	{name: SlotsRoom, game: "slots", exits: [][2]string{{"lobby", Lobby}, {"blackjack", BlackjackRoom}}},
	{name: BlackjackRoom, locked: true, cost: 50, game: "blackjack", exits: [][2]string{{"slots", SlotsRoom}, {"horse_race", HorseRaceRoom}}},
	{name: HorseRaceRoom, locked: true, cost: 100, game: "horserace", exits: [][2]string{{"blackjack", BlackjackRoom}, {"baccarat", BaccaratRoom}}},
	{name: BaccaratRoom, locked: true, cost: 120, game: "baccarat", exits: [][2]string{{"horse_race", BaccaratRoom}, {"poker", PokerRoom}}},
	{name: PokerRoom, locked: true, cost: 150, game: "poker", exits: [][2]string{{"baccarat", BaccaratRoom}, {"roulette", RouletteRoom}}},
	{name: RouletteRoom, locked: true, cost: 175, game: "roulette", exits: [][2]string{{"poker", PokerRoom}, {"vip", VIPLounge}}},
	{name: VIPLounge, locked: true, cost: 999, exits: [][2]string{{"horse_race", HorseRaceRoom}}},
}

// Build constructs the full casino floor. Every room exists before any
// exit is wired. text may be nil, leaving descriptions empty; gameName may
// be nil, in which case game commands are shown as is.
func Build(text Narrator, gameName GameNamer) *Map {
	m := &Map{
		rooms:    make(map[string]*Room, len(floor)),
		order:    make([]string, 0, len(floor)),
		gameName: gameName,
	}

	for _, def := range floor {
		r := &Room{
			Name:       def.name,
			Locked:     def.locked,
			UnlockCost: def.cost,
			Exits:      make(map[string]string, len(def.exits)),
			Game:       def.game,
		}
		if text != nil {
			r.Description = text.TextFor(def.name)
		}
		m.rooms[def.name] = r
		m.order = append(m.order, def.name)
	}

	for _, def := range floor {
		for _, e := range def.exits {
			m.rooms[def.name].Exits[e[0]] = e[1]
		}
	}
	return m
}

// Validate checks that every exit leads to a room on the map.
func (m *Map) Validate() error {
	for _, name := range m.order {
		for dir, to := range m.rooms[name].Exits {
			if _, ok := m.rooms[to]; !ok {
				return fmt.Errorf("%w: exit %q of %q leads to %q", ErrRoomNotFound, dir, name, to)
			}
		}
	}
	return nil
}

// Room returns a copy of the named room.
func (m *Map) Room(name string) (Room, bool) {
	r, ok := m.rooms[name]
	if !ok {
		return Room{}, false
	}
	return r.clone(), true
}

// Rooms returns copies of all rooms in build order.
func (m *Map) Rooms() []Room {
	rooms := make([]Room, 0, len(m.order))
	for _, name := range m.order {
		rooms = append(rooms, m.rooms[name].clone())
	}
	return rooms
}

// ExitsFrom returns a copy of the exits of the named room.
func (m *Map) ExitsFrom(name string) (map[string]string, error) {
	r, ok := m.rooms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}
	return r.clone().Exits, nil
}

// Target resolves an exit of the named room.
func (m *Map) Target(from, direction string) (Room, error) {
	r, ok := m.rooms[from]
	if !ok {
		return Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, from)
	}
	to, ok := r.Exits[direction]
	if !ok {
		return Room{}, fmt.Errorf("%w: no exit %q from the %s", ErrNoSuchExit, direction, from)
	}
	return m.rooms[to].clone(), nil
}

// Unlock pays the unlock cost of the named room out of p and opens it.
// On failure neither the room nor the balance changes.
func (m *Map) Unlock(name string, p *player.Player) error {
	r, ok := m.rooms[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}
	if !r.Locked {
		return fmt.Errorf("%w: %s", ErrAlreadyUnlocked, name)
	}
	if err := p.Debit(r.UnlockCost); err != nil {
		return fmt.Errorf("unlock %s for %d coins: %w", name, r.UnlockCost, err)
	}
	r.Locked = false
	return nil
}

// MarkUnlocked opens the named room without charge. Restoring a saved
// session uses it to replay lock state onto a freshly built map.
func (m *Map) MarkUnlocked(name string) error {
	r, ok := m.rooms[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}
	r.Locked = false
	return nil
}

// Details renders the named room for display.
func (m *Map) Details(name string) (string, error) {
	r, ok := m.rooms[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRoomNotFound, name)
	}
	gameName := r.Game
	if m.gameName != nil && r.HasGame() {
		gameName = m.gameName(r.Game)
	}
	return r.render(gameName), nil
}
