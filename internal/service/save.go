// Package service wires sessions to the save stores and round history.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"golden-casino/internal/model"
	"golden-casino/internal/repository"
	"golden-casino/internal/session"
)

// RoundStore records finished rounds.
type RoundStore interface {
	Create(ctx context.Context, round model.Round) error
	ListByPlayer(ctx context.Context, player string, limit int) ([]model.Round, error)
	NetByPlayer(ctx context.Context, player string) (*model.PlayerNet, error)
}

// SaveService saves and restores sessions and keeps round history.
type SaveService struct {
	store  repository.SaveStore
	rounds RoundStore
}

// NewSaveService creates a new SaveService instance. rounds may be nil,
// in which case rounds are not recorded.
func NewSaveService(store repository.SaveStore, rounds RoundStore) *SaveService {
	return &SaveService{
		store:  store,
		rounds: rounds,
	}
}

// Save snapshots sess into slot.
func (s *SaveService) Save(ctx context.Context, slot string, sess *session.Session) error {
	data, err := sess.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot session: %w", err)
	}
	if err := s.store.Save(ctx, slot, data); err != nil {
		return err
	}

	log.Info().
		Str("slot", slot).
		Str("player", sess.PlayerName()).
		Int64("balance", sess.Balance()).
		Msg("Game saved")
	return nil
}

// Load restores sess from slot. A missing slot is reported as
// session.ErrSnapshotUnavailable and leaves sess untouched.
func (s *SaveService) Load(ctx context.Context, slot string, sess *session.Session) error {
	data, err := s.store.Load(ctx, slot)
	if err != nil {
		if errors.Is(err, repository.ErrSaveNotFound) {
			return fmt.Errorf("%w: %s", session.ErrSnapshotUnavailable, slot)
		}
		return err
	}
	if err := sess.Restore(data); err != nil {
		return err
	}

	log.Info().
		Str("slot", slot).
		Str("player", sess.PlayerName()).
		Int64("balance", sess.Balance()).
		Msg("Game loaded")
	return nil
}

// Slots lists the stored saves.
func (s *SaveService) Slots(ctx context.Context) ([]model.SaveInfo, error) {
	return s.store.List(ctx)
}

// RecordRound stores a finished round under player.
func (s *SaveService) RecordRound(ctx context.Context, player string, round model.Round) error {
	if s.rounds == nil {
		return nil
	}
	round.Player = player
	if err := s.rounds.Create(ctx, round); err != nil {
		return err
	}
	return nil
}

// Recent returns up to limit of a player's recorded rounds, oldest first,
// or nil when rounds are not recorded.
func (s *SaveService) Recent(ctx context.Context, player string, limit int) ([]model.Round, error) {
	if s.rounds == nil {
		return nil, nil
	}
	rounds, err := s.rounds.ListByPlayer(ctx, player, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rounds)-1; i < j; i, j = i+1, j-1 {
		rounds[i], rounds[j] = rounds[j], rounds[i]
	}
	return rounds, nil
}

// Net returns a player's lifetime result, or nil when rounds are not
// recorded.
func (s *SaveService) Net(ctx context.Context, player string) (*model.PlayerNet, error) {
	if s.rounds == nil {
		return nil, nil
	}
	return s.rounds.NetByPlayer(ctx, player)
}
