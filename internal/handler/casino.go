// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"golden-casino/internal/casino"
	"golden-casino/internal/game"
	"golden-casino/internal/pkg/lock"
	"golden-casino/internal/service"
	"golden-casino/internal/session"
	"golden-casino/internal/story"
)

// Deps holds what the casino handler needs to open sessions.
type Deps struct {
	Story   *story.Story
	Catalog *game.Registry
	Rand    game.Rand
	Saves   *service.SaveService // nil disables /save and /load
	Session session.Options      // PlayerName is taken from the sender

	// LockTimeout bounds the wait for a user's previous command.
	// Zero means DefaultLockTimeout.
	LockTimeout time.Duration
}

// DefaultLockTimeout is used when Deps.LockTimeout is zero.
const DefaultLockTimeout = 5 * time.Second

// historyLimit is how many recorded rounds /history shows.
const historyLimit = 20

const (
	closedText = "❌ The casino is closed right now, please try again later."
	busyText   = "⏳ Your last command is still running, please try again in a moment."
)

// CasinoHandler keeps one session per Telegram user.
type CasinoHandler struct {
	deps     Deps
	userLock lock.Keyed[int64]

	mu       sync.Mutex
	sessions map[int64]*session.Session
}

// NewCasinoHandler creates a new CasinoHandler.
func NewCasinoHandler(deps Deps) *CasinoHandler {
	return &CasinoHandler{
		deps:     deps,
		sessions: make(map[int64]*session.Session),
	}
}

// action answers one command for a user whose lock is held.
type action func(ctx context.Context, u user, args []string) string

type user struct {
	id   int64
	sess *session.Session
}

// SlotFor returns the save slot of a Telegram user.
func SlotFor(userID int64) string {
	return fmt.Sprintf("tg-%d", userID)
}

func displayName(sender *tele.User) string {
	if sender.Username != "" {
		return sender.Username
	}
	if sender.FirstName != "" {
		return sender.FirstName
	}
	return strconv.FormatInt(sender.ID, 10)
}

// sessionFor returns the user's session, opening one on first contact.
// created reports whether it is new.
func (h *CasinoHandler) sessionFor(userID int64, name string) (sess *session.Session, created bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[userID]; ok {
		return s, false, nil
	}

	opts := h.deps.Session
	opts.PlayerName = name
	s, err := session.New(opts, h.deps.Story, h.deps.Catalog, h.deps.Rand)
	if err != nil {
		return nil, false, err
	}
	h.sessions[userID] = s
	return s, true, nil
}

// withUser runs fn under the user's lock. A user whose previous command
// still holds the lock after the timeout gets busyText instead.
func (h *CasinoHandler) withUser(ctx context.Context, userID int64, fn func() string) string {
	timeout := h.deps.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	var out string
	err := h.userLock.WithLockContext(ctx, userID, timeout, func() error {
		out = fn()
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("User lock not acquired")
		return busyText
	}
	return out
}

// do runs act for userID under the user's lock.
func (h *CasinoHandler) do(ctx context.Context, userID int64, name string, args []string, act action) string {
	return h.withUser(ctx, userID, func() string {
		sess, _, err := h.sessionFor(userID, name)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to open session")
			return closedText
		}
		return act(ctx, user{id: userID, sess: sess}, args)
	})
}

func (h *CasinoHandler) reply(c tele.Context, act action) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	return c.Reply(h.do(context.Background(), sender.ID, displayName(sender), c.Args(), act))
}

// HandleStart handles the /start command.
func (h *CasinoHandler) HandleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	return c.Reply(h.start(context.Background(), sender.ID, displayName(sender)))
}

// HandleLook handles the /look command.
func (h *CasinoHandler) HandleLook(c tele.Context) error { return h.reply(c, h.look) }

// HandleGo handles the /go command.
func (h *CasinoHandler) HandleGo(c tele.Context) error { return h.reply(c, h.goExit) }

// HandleEnter handles the /enter command.
func (h *CasinoHandler) HandleEnter(c tele.Context) error { return h.reply(c, h.enter) }

// HandleRooms handles the /rooms command.
func (h *CasinoHandler) HandleRooms(c tele.Context) error { return h.reply(c, h.rooms) }

// HandleUnlock handles the /unlock command.
func (h *CasinoHandler) HandleUnlock(c tele.Context) error { return h.reply(c, h.unlock) }

// HandlePlay handles the /play command.
func (h *CasinoHandler) HandlePlay(c tele.Context) error { return h.reply(c, h.play) }

// HandlePurse handles the /purse command.
func (h *CasinoHandler) HandlePurse(c tele.Context) error { return h.reply(c, h.purse) }

// HandleHistory handles the /history command.
func (h *CasinoHandler) HandleHistory(c tele.Context) error { return h.reply(c, h.history) }

// HandleSave handles the /save command.
func (h *CasinoHandler) HandleSave(c tele.Context) error { return h.reply(c, h.save) }

// HandleLoad handles the /load command.
func (h *CasinoHandler) HandleLoad(c tele.Context) error { return h.reply(c, h.load) }

// HandleHelp handles the /help command.
func (h *CasinoHandler) HandleHelp(c tele.Context) error { return c.Reply(helpText) }

const helpText = "🎰 Golden Casino commands:\n" +
	"/look - describe this room\n" +
	"/go <exit> - walk through an exit\n" +
	"/enter <room> - walk to an open room by name\n" +
	"/rooms - list every room\n" +
	"/unlock <exit> - pay to open the room behind an exit\n" +
	"/play <bet> [choice] - play this room's game\n" +
	"/purse - show your coins\n" +
	"/history - your recent bets\n" +
	"/save, /load - keep or restore your game"

func (h *CasinoHandler) start(ctx context.Context, userID int64, name string) string {
	return h.withUser(ctx, userID, func() string {
		return h.welcome(ctx, userID, name)
	})
}

// welcome greets a user, restoring their save on first contact. The
// caller holds the user's lock.
func (h *CasinoHandler) welcome(ctx context.Context, userID int64, name string) string {
	sess, created, err := h.sessionFor(userID, name)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to open session")
		return closedText
	}
	if !created {
		return fmt.Sprintf("👋 Welcome back, %s! You have %d coins.\n%s", name, sess.Balance(), sess.CurrentDetails())
	}

	var b strings.Builder
	if d := h.deps.Story.Disclaimer(); d != "" {
		b.WriteString(d + "\n\n")
	}
	b.WriteString("🎉 " + h.deps.Story.Welcome() + "\n")

	if h.deps.Saves != nil {
		err := h.deps.Saves.Load(ctx, SlotFor(userID), sess)
		switch {
		case err == nil:
			b.WriteString("Your saved game was restored.\n")
		case errors.Is(err, session.ErrSnapshotUnavailable):
		default:
			log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to restore saved game")
			b.WriteString("Your saved game could not be restored, starting fresh.\n")
		}
	}

	fmt.Fprintf(&b, "You have %d coins.\n%s\n\n%s", sess.Balance(), sess.CurrentDetails(), helpText)
	return b.String()
}

func (h *CasinoHandler) look(ctx context.Context, u user, args []string) string {
	return u.sess.CurrentDetails()
}

func (h *CasinoHandler) goExit(ctx context.Context, u user, args []string) string {
	if len(args) != 1 {
		return "❌ Usage: /go <exit>\nExits here: " + strings.Join(u.sess.CurrentRoom().Directions(), ", ")
	}
	room, err := u.sess.Move(strings.ToLower(args[0]))
	if errors.Is(err, casino.ErrRoomLocked) {
		return fmt.Sprintf("🔒 The %s is locked. /unlock %s costs %d coins.", room.Name, strings.ToLower(args[0]), room.UnlockCost)
	}
	if err != nil {
		return "❌ " + session.Message(err)
	}
	return u.sess.CurrentDetails()
}

func (h *CasinoHandler) enter(ctx context.Context, u user, args []string) string {
	name, ok := matchRoom(u.sess.Rooms(), strings.Join(args, " "))
	if !ok {
		return "❌ Usage: /enter <room>, see /rooms for the names."
	}
	room, err := u.sess.MoveTo(name)
	if errors.Is(err, casino.ErrRoomLocked) {
		return fmt.Sprintf("🔒 The %s is locked. It costs %d coins to unlock.", room.Name, room.UnlockCost)
	}
	if err != nil {
		return "❌ " + session.Message(err)
	}
	return u.sess.CurrentDetails()
}

// matchRoom finds a room by name, ignoring case and surrounding space.
func matchRoom(rooms []casino.Room, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, r := range rooms {
		if strings.EqualFold(r.Name, name) {
			return r.Name, true
		}
	}
	return "", false
}

func (h *CasinoHandler) rooms(ctx context.Context, u user, args []string) string {
	current := u.sess.CurrentRoom().Name

	var b strings.Builder
	b.WriteString("🗺 Rooms:\n")
	for _, r := range u.sess.Rooms() {
		marker := "▫️"
		if r.Name == current {
			marker = "📍"
		}
		if r.Locked {
			fmt.Fprintf(&b, "%s %s 🔒 %d coins\n", marker, r.Name, r.UnlockCost)
		} else {
			fmt.Fprintf(&b, "%s %s\n", marker, r.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (h *CasinoHandler) unlock(ctx context.Context, u user, args []string) string {
	if len(args) != 1 {
		return "❌ Usage: /unlock <exit>"
	}
	name, err := u.sess.UnlockExit(strings.ToLower(args[0]))
	if err != nil {
		return "❌ " + session.Message(err)
	}
	return fmt.Sprintf("🔓 You have successfully unlocked %s! You have %d coins left.", name, u.sess.Balance())
}

// parsePlayArgs splits /play arguments into a bet and an optional choice.
func parsePlayArgs(args []string) (bet int64, choice string, err error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, "", errors.New("usage: /play <bet> [choice]")
	}
	bet, err = strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, "", errors.New("the bet must be a whole number of coins")
	}
	if len(args) == 2 {
		choice = args[1]
	}
	return bet, choice, nil
}

func (h *CasinoHandler) play(ctx context.Context, u user, args []string) string {
	bet, choice, err := parsePlayArgs(args)
	if err != nil {
		return "❌ " + strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
	}

	turn, err := u.sess.PlayChoice(ctx, bet, choice)
	if err != nil {
		return "❌ " + session.Message(err)
	}

	if h.deps.Saves != nil {
		if err := h.deps.Saves.RecordRound(ctx, SlotFor(u.id), turn.Round); err != nil {
			log.Warn().Err(err).Int64("user_id", u.id).Msg("Failed to record round")
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎲 %s\n%s\n\nBalance: %d coins", turn.GameName, turn.Description, u.sess.Balance())

	switch u.sess.CheckBankruptcy() {
	case session.Rescued:
		fmt.Fprintf(&b, "\n\nYou have run out of money. A stranger in the casino gives you %d coins to continue playing.", u.sess.Stipend())
	case session.Bust:
		b.WriteString("\n\nYou have run out of money. You are being kicked out of the casino. Game over.")
		if err := u.sess.Reset(); err != nil {
			log.Error().Err(err).Int64("user_id", u.id).Msg("Failed to reset session")
		} else {
			fmt.Fprintf(&b, "\nA new game has started: you are back in the Lobby with %d coins.", u.sess.Balance())
		}
	}
	return b.String()
}

func (h *CasinoHandler) purse(ctx context.Context, u user, args []string) string {
	return fmt.Sprintf("💰 You have %d coins.", u.sess.Balance())
}

// history lists the user's recorded rounds when rounds are kept in the
// database, and the session's recent bets otherwise. Rounds are recorded
// under the user's save slot, so display names never mix.
func (h *CasinoHandler) history(ctx context.Context, u user, args []string) string {
	rounds := u.sess.History()
	title := "📜 Recent bets:"
	if h.deps.Saves != nil {
		recorded, err := h.deps.Saves.Recent(ctx, SlotFor(u.id), historyLimit)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", u.id).Msg("Failed to load recorded rounds")
		} else if len(recorded) > 0 {
			rounds = recorded
			title = fmt.Sprintf("📜 Your last %d bets:", len(recorded))
		}
	}
	if len(rounds) == 0 {
		return "No bets yet."
	}

	lines := make([]string, 0, len(rounds)+2)
	lines = append(lines, title)
	for _, r := range rounds {
		lines = append(lines, r.String())
	}

	if h.deps.Saves != nil {
		net, err := h.deps.Saves.Net(ctx, SlotFor(u.id))
		if err != nil {
			log.Warn().Err(err).Int64("user_id", u.id).Msg("Failed to load net result")
		} else if net != nil {
			lines = append(lines, fmt.Sprintf("All time: %d rounds, %+d coins", net.Rounds, net.Net))
		}
	}
	return strings.Join(lines, "\n")
}

func (h *CasinoHandler) save(ctx context.Context, u user, args []string) string {
	if h.deps.Saves == nil {
		return "❌ Saving is not available."
	}
	if err := h.deps.Saves.Save(ctx, SlotFor(u.id), u.sess); err != nil {
		log.Error().Err(err).Int64("user_id", u.id).Msg("Save failed")
		return "❌ Error saving game, please try again later."
	}
	return "💾 Game saved successfully!"
}

func (h *CasinoHandler) load(ctx context.Context, u user, args []string) string {
	if h.deps.Saves == nil {
		return "❌ Loading is not available."
	}
	err := h.deps.Saves.Load(ctx, SlotFor(u.id), u.sess)
	switch {
	case errors.Is(err, session.ErrSnapshotUnavailable):
		return "No saved game found."
	case err != nil:
		log.Error().Err(err).Int64("user_id", u.id).Msg("Load failed")
		return "❌ Error loading game: your save could not be read."
	}
	return "📂 Game loaded successfully!\n" + u.sess.CurrentDetails()
}
