package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Migrate creates the saves and rounds tables.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: saved sessions
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			data BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("migration 1: %w", err)
	}
	log.Info().Msg("Migration 1: saves table created")

	// Migration 2: round history
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rounds (
			id UUID PRIMARY KEY,
			player TEXT NOT NULL,
			game VARCHAR(32) NOT NULL,
			bet BIGINT NOT NULL,
			payout BIGINT NOT NULL,
			delta BIGINT NOT NULL,
			outcome VARCHAR(8) NOT NULL,
			jackpot BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_player_time ON rounds(player, created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("migration 2: %w", err)
	}
	log.Info().Msg("Migration 2: rounds table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
