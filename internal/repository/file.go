package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golden-casino/internal/model"
	"golden-casino/internal/pkg/lock"
)

const saveExt = ".yaml"

// FileStore keeps each slot in <dir>/<slot>.yaml.
// Writes go to a temp file first and are renamed into place.
type FileStore struct {
	dir   string
	locks lock.Keyed[string]
}

// NewFileStore creates a store rooted at dir. The directory is created on
// the first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the save directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+saveExt)
}

// Save writes data to slot atomically.
func (s *FileStore) Save(ctx context.Context, slot string, data []byte) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.locks.WithLock(slot, func() error {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("failed to create save dir: %w", err)
		}

		tmp, err := os.CreateTemp(s.dir, slot+".*.tmp")
		if err != nil {
			return fmt.Errorf("failed to create temp save: %w", err)
		}
		defer os.Remove(tmp.Name())

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write save: %w", err)
		}
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to sync save: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("failed to close save: %w", err)
		}
		if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
			return fmt.Errorf("failed to move save into place: %w", err)
		}
		return nil
	})
}

// Load reads slot.
func (s *FileStore) Load(ctx context.Context, slot string) ([]byte, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.locks.WithLock(slot, func() error {
		var err error
		data, err = os.ReadFile(s.path(slot))
		return err
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, slot)
		}
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return data, nil
}

// List returns every slot in the directory.
func (s *FileStore) List(ctx context.Context) ([]model.SaveInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.SaveInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	saves := []model.SaveInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, saveExt) {
			continue
		}
		slot := strings.TrimSuffix(name, saveExt)
		if ValidateSlot(slot) != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		saves = append(saves, model.SaveInfo{
			Slot:      slot,
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(saves, func(i, j int) bool { return saves[i].Slot < saves[j].Slot })
	return saves, nil
}

// Delete removes slot.
func (s *FileStore) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.locks.WithLock(slot, func() error {
		err := os.Remove(s.path(slot))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete save: %w", err)
		}
		return nil
	})
}
