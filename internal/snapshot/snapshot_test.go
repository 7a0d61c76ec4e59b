package snapshot

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-casino/internal/model"
)

func sample() model.Snapshot {
	return model.Snapshot{
		Player:      model.SnapshotPlayer{Name: "Ada", Balance: 123, JackpotWins: 2},
		Mode:        model.ModeEasy,
		CurrentRoom: "Blackjack Room",
		Rooms: []model.RoomState{
			{Name: "Lobby"},
			{Name: "Blackjack Room"},
			{Name: "VIP Lounge", Locked: true},
		},
		History: []model.Round{{
			ID:        uuid.MustParse("6f1c2a9e-1a57-4c2b-9a39-0d5f0d9b7f11"),
			Game:      "slots",
			Bet:       2,
			Payout:    10,
			Delta:     8,
			Outcome:   "win",
			CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}},
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(sample())
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1")

	got, err := Decode(data)
	require.NoError(t, err)

	want := sample()
	want.Version = CurrentVersion
	assert.Equal(t, want, *got)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"empty", "", ErrMalformed},
		{"whitespace", "  \n", ErrMalformed},
		{"not yaml", "version: [1", ErrMalformed},
		{"wrong shape", "- a\n- b\n", ErrMalformed},
		{"unknown field", "version: 1\ncurrent_room: Lobby\nrooms: [{name: Lobby}]\ncheats: true\n", ErrMalformed},
		{"missing version", "current_room: Lobby\nrooms: [{name: Lobby}]\n", ErrUnsupportedVersion},
		{"future version", "version: 2\ncurrent_room: Lobby\nrooms: [{name: Lobby}]\n", ErrUnsupportedVersion},
		{"no room", "version: 1\nrooms: [{name: Lobby}]\n", ErrMalformed},
		{"no rooms", "version: 1\ncurrent_room: Lobby\n", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
