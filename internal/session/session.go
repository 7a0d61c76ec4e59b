// Package session ties the ledger, the room map and the game catalog into
// one playthrough.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"golden-casino/internal/casino"
	"golden-casino/internal/game"
	"golden-casino/internal/model"
	"golden-casino/internal/player"
)

// Defaults for Options.
const (
	DefaultStipend     = 50
	DefaultHistorySize = 10
)

// Errors for session operations.
var (
	ErrNoGameHere          = errors.New("there is no game to play here")
	ErrSnapshotUnavailable = errors.New("no saved game found")
	ErrSnapshotCorrupt     = errors.New("saved game is corrupt")
)

// IsInformational reports whether err is a gameplay outcome the front-end
// should show before carrying on, as opposed to a failure.
func IsInformational(err error) bool {
	if errors.Is(err, ErrSnapshotCorrupt) {
		return false
	}
	for _, target := range []error{
		game.ErrBetTooLow,
		game.ErrBetTooHigh,
		game.ErrInvalidChoice,
		player.ErrInsufficientFunds,
		player.ErrInvalidAmount,
		casino.ErrRoomLocked,
		casino.ErrNoSuchExit,
		casino.ErrAlreadyUnlocked,
		casino.ErrRoomNotFound,
		ErrNoGameHere,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Standing is the result of a bankruptcy check.
type Standing int

const (
	Solvent Standing = iota // Coins left, nothing happened
	Rescued                 // Easy mode paid out the stipend
	Bust                    // Normal mode, the game is over
)

func (s Standing) String() string {
	switch s {
	case Solvent:
		return "solvent"
	case Rescued:
		return "rescued"
	case Bust:
		return "bust"
	default:
		return fmt.Sprintf("Standing(%d)", int(s))
	}
}

// Options configure a new session.
type Options struct {
	PlayerName      string
	StartingBalance int64
	Mode            model.Mode
	Stipend         int64
	HistorySize     int
}

func (o Options) withDefaults() Options {
	if o.StartingBalance <= 0 {
		o.StartingBalance = player.DefaultStartingBalance
	}
	if !o.Mode.Valid() {
		o.Mode = model.ModeNormal
	}
	if o.Stipend <= 0 {
		o.Stipend = DefaultStipend
	}
	if o.HistorySize <= 0 {
		o.HistorySize = DefaultHistorySize
	}
	return o
}

// Turn is the result of one play.
type Turn struct {
	*game.Result
	GameName string
	Round    model.Round
}

// Session is one playthrough. All methods are safe for concurrent use;
// each runs to completion under a single mutex, so readers never see half
// of a debit and credit pair.
type Session struct {
	mu sync.Mutex

	opts    Options
	text    casino.Narrator
	catalog *game.Registry
	rng     game.Rand

	player  *player.Player
	rooms   *casino.Map
	current string
	mode    model.Mode
	history []model.Round
}

// New builds the casino floor and puts a fresh player in the Lobby.
// text may be nil. Every game the floor refers to must be in catalog.
func New(opts Options, text casino.Narrator, catalog *game.Registry, rng game.Rand) (*Session, error) {
	if catalog == nil {
		return nil, errors.New("session: nil catalog")
	}
	if rng == nil {
		return nil, errors.New("session: nil rand")
	}

	s := &Session{
		opts:    opts.withDefaults(),
		text:    text,
		catalog: catalog,
		rng:     rng,
	}
	rooms, err := s.buildMap()
	if err != nil {
		return nil, err
	}
	s.reset(rooms)
	return s, nil
}

func (s *Session) gameName(command string) string {
	if g, ok := s.catalog.Get(command); ok {
		return g.Name()
	}
	return command
}

func (s *Session) buildMap() (*casino.Map, error) {
	m := casino.Build(s.text, s.gameName)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	for _, r := range m.Rooms() {
		if r.HasGame() {
			if _, ok := s.catalog.Get(r.Game); !ok {
				return nil, fmt.Errorf("session: %w: %q in the %s", game.ErrUnknownGame, r.Game, r.Name)
			}
		}
	}
	return m, nil
}

func (s *Session) reset(rooms *casino.Map) {
	s.player = player.New(s.opts.PlayerName, s.opts.StartingBalance)
	s.rooms = rooms
	s.current = casino.Lobby
	s.mode = s.opts.Mode
	s.history = nil
}

// Reset starts the playthrough over with the options it was created with.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.buildMap()
	if err != nil {
		return err
	}
	s.reset(rooms)
	return nil
}

// Move walks through an exit of the current room. A locked target is not
// entered and not unlocked.
func (s *Session) Move(direction string) (casino.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.rooms.Target(s.current, direction)
	if err != nil {
		return casino.Room{}, err
	}
	return s.enter(target)
}

// MoveTo walks straight to the named room.
func (s *Session) MoveTo(name string) (casino.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.rooms.Room(name)
	if !ok {
		return casino.Room{}, fmt.Errorf("%w: %s", casino.ErrRoomNotFound, name)
	}
	return s.enter(target)
}

func (s *Session) enter(target casino.Room) (casino.Room, error) {
	if target.Locked {
		return target, fmt.Errorf("%w: the %s costs %d coins to unlock", casino.ErrRoomLocked, target.Name, target.UnlockCost)
	}
	s.current = target.Name
	return target, nil
}

// Unlock pays to open the named room.
func (s *Session) Unlock(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlock(name)
}

// UnlockExit pays to open the room behind an exit of the current room.
// It returns the name of that room.
func (s *Session) UnlockExit(direction string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.rooms.Target(s.current, direction)
	if err != nil {
		return "", err
	}
	return target.Name, s.unlock(target.Name)
}

func (s *Session) unlock(name string) error {
	if err := s.rooms.Unlock(name, s.player); err != nil {
		return err
	}
	log.Debug().
		Str("player", s.player.Name()).
		Str("room", name).
		Int64("balance", s.player.Balance()).
		Msg("Room unlocked")
	return nil
}

// Play runs one round of the current room's game. params carries the
// player's choice for games that need one.
func (s *Session) Play(ctx context.Context, bet int64, params map[string]any) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.currentGame()
	if err != nil {
		return nil, err
	}
	return s.play(ctx, g, bet, params)
}

// PlayChoice is Play for front-ends that take the choice as typed text.
// The text is matched against the game's choices, ignoring case; it is
// ignored for games that need no choice.
func (s *Session) PlayChoice(ctx context.Context, bet int64, choice string) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.currentGame()
	if err != nil {
		return nil, err
	}

	var params map[string]any
	if spec := g.Choices(); spec != nil {
		v, ok := spec.Parse(choice)
		if !ok {
			return nil, fmt.Errorf("%w: %s", game.ErrInvalidChoice, describeChoice(spec))
		}
		params = map[string]any{spec.Param: v}
	}
	return s.play(ctx, g, bet, params)
}

func describeChoice(spec *game.ChoiceSpec) string {
	prompt := "make a choice"
	if spec.Prompt != "" {
		prompt = strings.ToLower(spec.Prompt[:1]) + spec.Prompt[1:]
	}
	if spec.Numeric() {
		return prompt
	}
	return fmt.Sprintf("%s (%s)", prompt, strings.Join(spec.Options, ", "))
}

func (s *Session) play(ctx context.Context, g game.Game, bet int64, params map[string]any) (*Turn, error) {
	if bet > s.player.Balance() {
		return nil, fmt.Errorf("%w: you have %d coins", player.ErrInsufficientFunds, s.player.Balance())
	}

	res, err := g.Play(ctx, s.player, bet, s.rng, params)
	if err != nil {
		return nil, err
	}

	round := model.NewRound(g.Command(), res.Bet, res.Payout, string(res.Outcome), res.Jackpot)
	round.Player = s.player.Name()
	s.history = append(s.history, round)
	if over := len(s.history) - s.opts.HistorySize; over > 0 {
		s.history = append([]model.Round(nil), s.history[over:]...)
	}

	log.Debug().
		Str("player", s.player.Name()).
		Str("game", g.Command()).
		Int64("bet", bet).
		Int64("delta", res.Delta).
		Str("outcome", string(res.Outcome)).
		Msg("Round played")

	return &Turn{Result: res, GameName: g.Name(), Round: round}, nil
}

func (s *Session) currentGame() (game.Game, error) {
	r, _ := s.rooms.Room(s.current)
	if !r.HasGame() {
		return nil, fmt.Errorf("%w: the %s has no table", ErrNoGameHere, r.Name)
	}
	g, ok := s.catalog.Get(r.Game)
	if !ok {
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownGame, r.Game)
	}
	return g, nil
}

// CheckBankruptcy handles an empty purse. In easy mode the stipend is paid
// out; in normal mode the game is over.
func (s *Session) CheckBankruptcy() Standing {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player.Balance() > 0 {
		return Solvent
	}
	if s.mode == model.ModeEasy {
		// stipend is positive after withDefaults
		_ = s.player.Credit(s.opts.Stipend)
		log.Info().Str("player", s.player.Name()).Int64("stipend", s.opts.Stipend).Msg("Bankrupt, stipend paid")
		return Rescued
	}
	log.Info().Str("player", s.player.Name()).Msg("Bankrupt, game over")
	return Bust
}

// Stipend returns the easy mode bankruptcy payout.
func (s *Session) Stipend() int64 {
	return s.opts.Stipend
}

// Message renders an informational error as a line for the player.
// Other errors are returned as their text.
func Message(err error) string {
	switch {
	case errors.Is(err, player.ErrInsufficientFunds):
		return "You don't have enough coins for that."
	case errors.Is(err, game.ErrBetTooLow):
		return detail(err, game.ErrBetTooLow)
	case errors.Is(err, game.ErrBetTooHigh):
		return detail(err, game.ErrBetTooHigh)
	case errors.Is(err, game.ErrInvalidChoice):
		return detail(err, game.ErrInvalidChoice)
	case errors.Is(err, ErrNoGameHere):
		return "There is no game to play here."
	case errors.Is(err, casino.ErrNoSuchExit):
		return "You can't go that way."
	case errors.Is(err, casino.ErrRoomLocked):
		return detail(err, casino.ErrRoomLocked)
	case errors.Is(err, casino.ErrAlreadyUnlocked):
		return "That room is already unlocked."
	case errors.Is(err, casino.ErrRoomNotFound):
		return "Room not found."
	default:
		return err.Error()
	}
}

// detail strips the sentinel prefix from a wrapped error and capitalizes
// what is left.
func detail(err, sentinel error) string {
	s := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if s == "" {
		return err.Error()
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
