// Package casino holds the fixed room graph of the casino floor.
package casino

import (
	"fmt"
	"sort"
	"strings"
)

// Room names.
const (
	Lobby         = "Lobby"
	SlotsRoom     = "Slots Room"
	BlackjackRoom = "Blackjack Room"
	HorseRaceRoom = "Horse Race Room"
	BaccaratRoom  = "Baccarat Room"
	PokerRoom     = "Poker Room"
	RouletteRoom  = "Roulette Room"
	VIPLounge     = "VIP Lounge"
)

// Room is one area of the casino. Exits refer to other rooms by name.
type Room struct {
	Name        string            // Also the key in the map
	Description string            // Story text
	Locked      bool              // Only ever goes from true to false
	UnlockCost  int64             // Coins needed while locked
	Exits       map[string]string // Direction -> room name
	Game        string            // Command of the attached game, empty for none
}

// HasGame reports whether a game is attached to the room.
func (r Room) HasGame() bool {
	return r.Game != ""
}

// Directions returns the exit labels, sorted.
func (r Room) Directions() []string {
	dirs := make([]string, 0, len(r.Exits))
	for d := range r.Exits {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func (r Room) clone() Room {
	exits := make(map[string]string, len(r.Exits))
	for d, to := range r.Exits {
		exits[d] = to
	}
	r.Exits = exits
	return r
}

// render formats the room the way it is shown on entry.
// gameName is the display name of the attached game.
func (r Room) render(gameName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- %s ---\n%s\n", r.Name, r.Description)
	if r.Locked {
		fmt.Fprintf(&b, "\nThis area is locked! Unlock cost: %d coins.", r.UnlockCost)
	}
	if len(r.Exits) > 0 {
		fmt.Fprintf(&b, "\nAvailable exits: %s", strings.Join(r.Directions(), ", "))
	}
	if r.HasGame() {
		fmt.Fprintf(&b, "\nYou can play: %s", gameName)
	}
	return b.String()
}
