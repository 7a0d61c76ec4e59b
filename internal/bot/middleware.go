package bot

import (
	"sync"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"golden-casino/internal/config"
)

// Members remembers users seen in a whitelisted group, who may then talk
// to the bot in private.
type Members struct {
	mu    sync.RWMutex
	users map[int64]bool
}

// NewMembers returns an empty member set.
func NewMembers() *Members {
	return &Members{users: make(map[int64]bool)}
}

// Allow marks a user as a member.
func (m *Members) Allow(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = true
}

// Allowed reports whether a user is a member.
func (m *Members) Allowed(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[userID]
}

// admit decides whether an update from chat and sender is handled.
// Group members are recorded as a side effect.
func admit(cfg *config.Config, members *Members, chat *tele.Chat, sender *tele.User) bool {
	if chat == nil || sender == nil {
		return false
	}

	if chat.Type == tele.ChatPrivate {
		// an empty whitelist leaves private chats open to everyone
		return len(cfg.Whitelist.Chats) == 0 || members.Allowed(sender.ID)
	}

	if !cfg.IsChatAllowed(chat.ID) {
		return false
	}
	members.Allow(sender.ID)
	return true
}

// WhitelistMiddleware drops updates from chats outside the whitelist.
func WhitelistMiddleware(cfg *config.Config, members *Members) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !admit(cfg, members, c.Chat(), c.Sender()) {
				ev := log.Debug()
				if chat := c.Chat(); chat != nil {
					ev = ev.Int64("chat_id", chat.ID)
				}
				ev.Msg("Ignoring update from non-whitelisted chat")
				return nil
			}
			return next(c)
		}
	}
}

// LoggingMiddleware creates a middleware that logs all incoming messages.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			chat := c.Chat()

			logEvent := log.Debug()
			if sender != nil {
				logEvent = logEvent.
					Int64("user_id", sender.ID).
					Str("username", sender.Username)
			}
			if chat != nil {
				logEvent = logEvent.
					Int64("chat_id", chat.ID).
					Str("chat_type", string(chat.Type))
			}
			logEvent.
				Str("text", c.Text()).
				Msg("Received message")

			return next(c)
		}
	}
}

// RecoveryMiddleware creates a middleware that recovers from panics.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Str("text", c.Text()).
						Msg("Recovered from panic in handler")
					err = c.Reply("❌ Something went wrong at the table, please try again.")
				}
			}()
			return next(c)
		}
	}
}
