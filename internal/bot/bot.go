// Package bot wires the casino handlers into a Telegram bot.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"golden-casino/internal/config"
	"golden-casino/internal/handler"
)

// Bot wraps the telebot instance with the casino handler.
type Bot struct {
	bot     *tele.Bot
	cfg     *config.Config
	casino  *handler.CasinoHandler
	members *Members
}

// New creates a Bot. Nothing is contacted until Start.
func New(cfg *config.Config, casino *handler.CasinoHandler) (*Bot, error) {
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot token is required")
	}

	teleBot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("Telegram handler failed")
		},
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{
		bot:     teleBot,
		cfg:     cfg,
		casino:  casino,
		members: NewMembers(),
	}
	b.registerMiddleware()
	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg, b.members))
	b.bot.Use(LoggingMiddleware())
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.casino.HandleStart)
	b.bot.Handle("/help", b.casino.HandleHelp)
	b.bot.Handle("/look", b.casino.HandleLook)
	b.bot.Handle("/go", b.casino.HandleGo)
	b.bot.Handle("/enter", b.casino.HandleEnter)
	b.bot.Handle("/rooms", b.casino.HandleRooms)
	b.bot.Handle("/unlock", b.casino.HandleUnlock)
	b.bot.Handle("/play", b.casino.HandlePlay)
	b.bot.Handle("/purse", b.casino.HandlePurse)
	b.bot.Handle("/history", b.casino.HandleHistory)
	b.bot.Handle("/save", b.casino.HandleSave)
	b.bot.Handle("/load", b.casino.HandleLoad)
}

// Run polls until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		log.Info().Msg("Stopping bot...")
		b.bot.Stop()
	}()

	log.Info().Str("bot", b.bot.Me.Username).Msg("Starting bot...")
	b.bot.Start()
}
