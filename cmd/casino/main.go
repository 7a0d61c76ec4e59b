// Package main is the entry point for the Golden Casino.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"golden-casino/internal/bot"
	"golden-casino/internal/cli"
	"golden-casino/internal/config"
	"golden-casino/internal/game"
	"golden-casino/internal/game/catalog"
	"golden-casino/internal/handler"
	"golden-casino/internal/model"
	"golden-casino/internal/pkg/db"
	"golden-casino/internal/repository"
	"golden-casino/internal/service"
	"golden-casino/internal/session"
	"golden-casino/internal/story"
	"golden-casino/internal/tui"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	setLogLevel(cfg.Log.Level)

	// The full-screen UI owns the terminal, so its logs go to a file
	if cfg.Frontend == config.FrontendTUI {
		f, err := os.OpenFile("casino.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}
		defer f.Close()
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}

	log.Info().Str("frontend", cfg.Frontend).Str("saves", cfg.Saves.Driver).Msg("Configuration loaded successfully")

	// Cancelled on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Casino stopped with an error")
	}
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := loadStory(cfg.Story.Path)
	if err != nil {
		return err
	}

	registry, err := catalog.New(cfg.MinBets())
	if err != nil {
		return fmt.Errorf("build game catalog: %w", err)
	}
	log.Info().
		Int("game_count", registry.Count()).
		Strs("games", registry.Commands()).
		Msg("Games registered")

	saves, closeStore, err := openSaves(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	rng := game.NewRand(cfg.Game.Seed)
	opts := session.Options{
		PlayerName:      cfg.Player.Name,
		StartingBalance: cfg.Player.StartingBalance,
		Mode:            model.ParseMode(cfg.Game.Mode),
		Stipend:         cfg.Game.Stipend,
		HistorySize:     cfg.Game.HistorySize,
	}

	switch cfg.Frontend {
	case config.FrontendTelegram:
		casino := handler.NewCasinoHandler(handler.Deps{
			Story:   st,
			Catalog: registry,
			Rand:    rng,
			Saves:   saves,
			Session: opts,

			LockTimeout: cfg.Bot.LockTimeout,
		})
		telegramBot, err := bot.New(cfg, casino)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		telegramBot.Run(ctx)
		log.Info().Msg("Bot stopped gracefully")
		return nil

	case config.FrontendTUI:
		if opts.PlayerName == "" {
			opts.PlayerName = "Player"
		}
		sess, err := session.New(opts, st, registry, rng)
		if err != nil {
			return err
		}
		return tui.Run(ctx, sess, saves, cfg.Saves.Slot, intro(st, sess))

	default:
		c := cli.New(os.Stdin, os.Stdout, st, registry, rng, saves, cli.Config{
			Slot:    cfg.Saves.Slot,
			Session: opts,
		})
		return runInterruptible(ctx, c.Run)
	}
}

// runInterruptible returns when fn does or when ctx is cancelled, whichever
// is first. A blocked terminal read cannot be cancelled, so fn is abandoned.
func runInterruptible(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout, "\nYou leave the game.")
		return nil
	}
}

func loadStory(path string) (*story.Story, error) {
	if path == "" {
		log.Info().Msg("Using the bundled story")
		return story.Default(), nil
	}
	st, err := story.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load story: %w", err)
	}
	log.Info().Str("path", path).Msg("Story loaded")
	return st, nil
}

// openSaves builds the save service for the configured driver. The returned
// func releases whatever the store holds open.
func openSaves(ctx context.Context, cfg *config.Config) (*service.SaveService, func(), error) {
	if !cfg.NeedsDatabase() {
		store := repository.NewFileStore(cfg.Saves.Dir)
		log.Info().Str("dir", store.Dir()).Msg("Saving games to files")
		return service.NewSaveService(store, nil), func() {}, nil
	}

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// Run database migrations
	if err := repository.Migrate(ctx, dbPool.Pool); err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("run database migrations: %w", err)
	}

	saves := service.NewSaveService(
		repository.NewPostgresStore(dbPool.Pool),
		repository.NewRoundRepository(dbPool.Pool),
	)
	return saves, dbPool.Close, nil
}

func intro(st *story.Story, sess *session.Session) string {
	var b strings.Builder
	if d := st.Disclaimer(); d != "" {
		fmt.Fprintf(&b, "%s\n\n", d)
	}
	fmt.Fprintln(&b, st.Welcome())
	if tour := st.Tour(); tour != "" {
		fmt.Fprintln(&b, tour)
		for _, line := range st.TourRooms() {
			fmt.Fprintln(&b, line)
		}
	}
	b.WriteString(sess.CurrentDetails())
	return b.String()
}
