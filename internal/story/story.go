// Package story loads the narrative text shown around the casino.
package story

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultWelcome is shown when the document has no welcome text.
const DefaultWelcome = "Welcome to the Casino Game!"

//go:embed story.yaml
var defaultStory []byte

// ErrEmpty is returned for a document with no content.
var ErrEmpty = errors.New("story document is empty")

// RoomText is the description of one room.
type RoomText struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// GameText holds the texts shown outside any room.
type GameText struct {
	Disclaimer      string   `yaml:"disclaimer"`
	Welcome         string   `yaml:"welcome"`
	CasinoTour      string   `yaml:"casino_tour"`
	CasinoTourRooms []string `yaml:"casino_tour_rooms"`
}

// Story is a read-only lookup of narrative text.
type Story struct {
	Rooms []RoomText `yaml:"rooms"`
	Game  GameText   `yaml:"game"`
}

// Parse decodes a story document. YAML is a superset of JSON, so both a
// story.json and a story.yaml are accepted.
func Parse(data []byte) (*Story, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	var s Story
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse story: %w", err)
	}
	return &s, nil
}

// Load reads and parses the story document at path.
func Load(path string) (*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read story: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Default returns the story bundled with the binary.
func Default() *Story {
	s, err := Parse(defaultStory)
	if err != nil {
		panic(fmt.Sprintf("embedded story: %v", err))
	}
	return s
}

// TextFor returns the description of the named room, or "" if there is none.
func (s *Story) TextFor(room string) string {
	for _, r := range s.Rooms {
		if r.Name == room {
			return r.Description
		}
	}
	return ""
}

// Disclaimer returns the disclaimer text.
func (s *Story) Disclaimer() string {
	return s.Game.Disclaimer
}

// Welcome returns the welcome text, or DefaultWelcome.
func (s *Story) Welcome() string {
	if s.Game.Welcome == "" {
		return DefaultWelcome
	}
	return s.Game.Welcome
}

// Tour returns the introduction to the casino tour.
func (s *Story) Tour() string {
	return s.Game.CasinoTour
}

// TourRooms returns the tour lines in order.
func (s *Story) TourRooms() []string {
	out := make([]string, len(s.Game.CasinoTourRooms))
	copy(out, s.Game.CasinoTourRooms)
	return out
}
