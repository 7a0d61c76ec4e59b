// Package config provides configuration management using viper.
// It supports loading from YAML files, an optional .env file and
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Front-ends.
const (
	FrontendCLI      = "cli"
	FrontendTUI      = "tui"
	FrontendTelegram = "telegram"
)

// Save drivers.
const (
	SavesFile     = "file"
	SavesPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Frontend  string                 `mapstructure:"frontend"`
	Log       LogConfig              `mapstructure:"log"`
	Player    PlayerConfig           `mapstructure:"player"`
	Game      GameConfig             `mapstructure:"game"`
	Story     StoryConfig            `mapstructure:"story"`
	Saves     SavesConfig            `mapstructure:"saves"`
	Database  DatabaseConfig         `mapstructure:"database"`
	Bot       BotConfig              `mapstructure:"bot"`
	Whitelist WhitelistConfig        `mapstructure:"whitelist"`
	Games     map[string]TableConfig `mapstructure:"games"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// PlayerConfig holds the new player's settings.
type PlayerConfig struct {
	Name            string `mapstructure:"name"`
	StartingBalance int64  `mapstructure:"starting_balance"`
}

// GameConfig holds session rules.
type GameConfig struct {
	Mode        string `mapstructure:"mode"`
	Stipend     int64  `mapstructure:"stipend"`
	HistorySize int    `mapstructure:"history_size"`
	Seed        uint64 `mapstructure:"seed"`
}

// StoryConfig points at the narrative document. Empty means the bundled one.
type StoryConfig struct {
	Path string `mapstructure:"path"`
}

// SavesConfig selects where saved games go.
type SavesConfig struct {
	Driver string `mapstructure:"driver"`
	Dir    string `mapstructure:"dir"`
	Slot   string `mapstructure:"slot"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// TableConfig holds per-game settings, keyed by game command.
type TableConfig struct {
	MinBet int64 `mapstructure:"min_bet"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory. A .env file in the
// working directory, if present, is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase
	// e.g., BOT_TOKEN, GAME_MODE, SAVES_DRIVER
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("frontend", FrontendCLI)
	v.SetDefault("log.level", "info")

	// Player and session defaults
	v.SetDefault("player.name", "")
	v.SetDefault("player.starting_balance", 40)
	v.SetDefault("game.mode", "normal")
	v.SetDefault("game.stipend", 50)
	v.SetDefault("game.history_size", 10)
	v.SetDefault("game.seed", 0)
	v.SetDefault("story.path", "")

	// Save defaults
	v.SetDefault("saves.driver", SavesFile)
	v.SetDefault("saves.dir", ".saves")
	v.SetDefault("saves.slot", "casino_save")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "casino")
	v.SetDefault("database.name", "casino")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.lock_timeout", "5s")

	// Table minimums
	v.SetDefault("games.slots.min_bet", 2)
	v.SetDefault("games.blackjack.min_bet", 5)
	v.SetDefault("games.horserace.min_bet", 8)
	v.SetDefault("games.baccarat.min_bet", 10)
	v.SetDefault("games.roulette.min_bet", 12)
	v.SetDefault("games.poker.min_bet", 15)
}

// Validate rejects settings the casino cannot run with.
func (c *Config) Validate() error {
	switch c.Frontend {
	case FrontendCLI, FrontendTUI:
	case FrontendTelegram:
		if c.Bot.Token == "" {
			return errors.New("bot.token is required for the telegram frontend")
		}
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}

	if c.Game.Mode != "easy" && c.Game.Mode != "normal" {
		return fmt.Errorf("unknown game mode %q", c.Game.Mode)
	}
	if c.Player.StartingBalance < 0 {
		return fmt.Errorf("player.starting_balance must not be negative, got %d", c.Player.StartingBalance)
	}
	if c.Game.Stipend < 0 {
		return fmt.Errorf("game.stipend must not be negative, got %d", c.Game.Stipend)
	}

	switch c.Saves.Driver {
	case SavesFile:
		if c.Saves.Dir == "" {
			return errors.New("saves.dir is required for the file driver")
		}
	case SavesPostgres:
	default:
		return fmt.Errorf("unknown saves driver %q", c.Saves.Driver)
	}

	for cmd, t := range c.Games {
		if t.MinBet < 0 {
			return fmt.Errorf("games.%s.min_bet must not be negative, got %d", cmd, t.MinBet)
		}
	}
	return nil
}

// NeedsDatabase reports whether any component talks to PostgreSQL.
func (c *Config) NeedsDatabase() bool {
	return c.Saves.Driver == SavesPostgres
}

// MinBets returns the configured table minimums keyed by game command.
func (c *Config) MinBets() map[string]int64 {
	out := make(map[string]int64, len(c.Games))
	for cmd, t := range c.Games {
		out[cmd] = t.MinBet
	}
	return out
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}
