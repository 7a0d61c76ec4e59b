// Package repository provides the save stores and round history.
package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golden-casino/internal/model"
)

// Common errors for repository operations.
var (
	ErrSaveNotFound = errors.New("save not found")
	ErrInvalidSlot  = errors.New("invalid save slot name")
)

// SaveStore keeps encoded session snapshots under named slots.
type SaveStore interface {
	// Save writes data to slot, replacing what was there.
	Save(ctx context.Context, slot string, data []byte) error

	// Load returns the data in slot, or ErrSaveNotFound.
	Load(ctx context.Context, slot string) ([]byte, error)

	// List describes every stored slot, ordered by slot name.
	List(ctx context.Context) ([]model.SaveInfo, error)

	// Delete removes slot. Deleting a missing slot is not an error.
	Delete(ctx context.Context, slot string) error
}

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateSlot rejects slot names that are empty, too long, or could
// escape the save directory.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}
