package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, FrontendCLI, cfg.Frontend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(40), cfg.Player.StartingBalance)
	assert.Equal(t, "normal", cfg.Game.Mode)
	assert.Equal(t, int64(50), cfg.Game.Stipend)
	assert.Equal(t, 10, cfg.Game.HistorySize)
	assert.Equal(t, SavesFile, cfg.Saves.Driver)
	assert.Equal(t, ".saves", cfg.Saves.Dir)
	assert.Equal(t, "casino_save", cfg.Saves.Slot)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.Bot.LockTimeout)
	assert.Equal(t, map[string]int64{
		"slots": 2, "blackjack": 5, "horserace": 8,
		"baccarat": 10, "roulette": 12, "poker": 15,
	}, cfg.MinBets())
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.NeedsDatabase())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
frontend: tui
game:
  mode: easy
  seed: 99
games:
  poker:
    min_bet: 20
whitelist:
  chats: [1, 2]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("SAVES_SLOT", "from_env")
	t.Setenv("PLAYER_NAME", "Ada")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, FrontendTUI, cfg.Frontend)
	assert.Equal(t, "easy", cfg.Game.Mode)
	assert.Equal(t, uint64(99), cfg.Game.Seed)
	assert.Equal(t, int64(20), cfg.MinBets()["poker"])
	assert.Equal(t, int64(2), cfg.MinBets()["slots"])
	assert.Equal(t, "from_env", cfg.Saves.Slot)
	assert.Equal(t, "Ada", cfg.Player.Name)
	assert.True(t, cfg.IsChatAllowed(2))
	assert.False(t, cfg.IsChatAllowed(3))
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("game: [oops"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		Frontend: FrontendCLI,
		Player:   PlayerConfig{StartingBalance: 40},
		Game:     GameConfig{Mode: "normal", Stipend: 50},
		Saves:    SavesConfig{Driver: SavesFile, Dir: ".saves"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"telegram with token", func(c *Config) { c.Frontend = FrontendTelegram; c.Bot.Token = "t" }, false},
		{"telegram without token", func(c *Config) { c.Frontend = FrontendTelegram }, true},
		{"unknown frontend", func(c *Config) { c.Frontend = "web" }, true},
		{"unknown mode", func(c *Config) { c.Game.Mode = "hard" }, true},
		{"negative balance", func(c *Config) { c.Player.StartingBalance = -1 }, true},
		{"negative stipend", func(c *Config) { c.Game.Stipend = -5 }, true},
		{"postgres saves", func(c *Config) { c.Saves.Driver = SavesPostgres }, false},
		{"unknown saves driver", func(c *Config) { c.Saves.Driver = "s3" }, true},
		{"file saves without dir", func(c *Config) { c.Saves.Dir = "" }, true},
		{"negative min bet", func(c *Config) { c.Games = map[string]TableConfig{"slots": {MinBet: -1}} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "casino"}
	assert.Equal(t, "postgres://u:p@db:5433/casino?sslmode=disable", d.DSN())
}
