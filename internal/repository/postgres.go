package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"golden-casino/internal/model"
)

// PostgresStore keeps slots in the saves table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save upserts slot.
func (s *PostgresStore) Save(ctx context.Context, slot string, data []byte) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}

	const query = `
		INSERT INTO saves (slot, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, slot, data); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

// Load returns the data in slot.
func (s *PostgresStore) Load(ctx context.Context, slot string) ([]byte, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}

	const query = `SELECT data FROM saves WHERE slot = $1`

	var data []byte
	if err := s.pool.QueryRow(ctx, query, slot).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, slot)
		}
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	return data, nil
}

// List returns every stored slot.
func (s *PostgresStore) List(ctx context.Context) ([]model.SaveInfo, error) {
	const query = `
		SELECT slot, octet_length(data), updated_at
		FROM saves
		ORDER BY slot
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	saves := []model.SaveInfo{}
	for rows.Next() {
		var info model.SaveInfo
		if err := rows.Scan(&info.Slot, &info.Size, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save: %w", err)
		}
		saves = append(saves, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saves: %w", err)
	}

	return saves, nil
}

// Delete removes slot.
func (s *PostgresStore) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM saves WHERE slot = $1`, slot); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}
