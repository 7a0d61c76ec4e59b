package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"golden-casino/internal/model"
)

// RoundRepository records finished rounds.
type RoundRepository struct {
	pool *pgxpool.Pool
}

// NewRoundRepository creates a new RoundRepository instance.
func NewRoundRepository(pool *pgxpool.Pool) *RoundRepository {
	return &RoundRepository{pool: pool}
}

// Create stores a round. The round's ID and timestamp are kept as given.
func (r *RoundRepository) Create(ctx context.Context, round model.Round) error {
	const query = `
		INSERT INTO rounds (id, player, game, bet, payout, delta, outcome, jackpot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		round.ID,
		round.Player,
		round.Game,
		round.Bet,
		round.Payout,
		round.Delta,
		round.Outcome,
		round.Jackpot,
		round.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// ListByPlayer returns a player's most recent rounds, newest first.
func (r *RoundRepository) ListByPlayer(ctx context.Context, player string, limit int) ([]model.Round, error) {
	const query = `
		SELECT id, player, game, bet, payout, delta, outcome, jackpot, created_at
		FROM rounds
		WHERE player = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, player, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	defer rows.Close()

	var rounds []model.Round
	for rows.Next() {
		var round model.Round
		err := rows.Scan(
			&round.ID,
			&round.Player,
			&round.Game,
			&round.Bet,
			&round.Payout,
			&round.Delta,
			&round.Outcome,
			&round.Jackpot,
			&round.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}

	return rounds, nil
}

// NetByPlayer returns a player's round count and net result.
func (r *RoundRepository) NetByPlayer(ctx context.Context, player string) (*model.PlayerNet, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(delta), 0)
		FROM rounds
		WHERE player = $1
	`

	net := model.PlayerNet{Player: player}
	if err := r.pool.QueryRow(ctx, query, player).Scan(&net.Rounds, &net.Net); err != nil {
		return nil, fmt.Errorf("failed to get player net: %w", err)
	}
	return &net, nil
}
