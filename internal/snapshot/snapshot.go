// Package snapshot encodes sessions to a versioned YAML document.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"golden-casino/internal/model"
)

// CurrentVersion is the only snapshot layout this build reads and writes.
const CurrentVersion = 1

// Errors for snapshot decoding.
var (
	ErrMalformed          = errors.New("malformed snapshot")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// Encode stamps s with CurrentVersion and marshals it.
func Encode(s model.Snapshot) ([]byte, error) {
	s.Version = CurrentVersion
	data, err := yaml.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. Unknown fields, a missing version and any
// version other than CurrentVersion are rejected.
func Decode(data []byte) (*model.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s model.Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case s.Version == 0:
		return nil, fmt.Errorf("%w: missing version", ErrUnsupportedVersion)
	case s.Version != CurrentVersion:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}

	if s.CurrentRoom == "" {
		return nil, fmt.Errorf("%w: no current room", ErrMalformed)
	}
	if len(s.Rooms) == 0 {
		return nil, fmt.Errorf("%w: no rooms", ErrMalformed)
	}
	return &s, nil
}
