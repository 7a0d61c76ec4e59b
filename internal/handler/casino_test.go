package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"golden-casino/internal/casino"
	"golden-casino/internal/game"
	"golden-casino/internal/game/catalog"
	"golden-casino/internal/model"
	"golden-casino/internal/repository"
	"golden-casino/internal/service"
	"golden-casino/internal/session"
	"golden-casino/internal/story"
)

func newHandler(t *testing.T, opts session.Options, rng game.Rand) *CasinoHandler {
	t.Helper()
	if rng == nil {
		rng = game.NewRand(1)
	}
	return NewCasinoHandler(Deps{
		Story:   story.Default(),
		Catalog: catalog.Default(),
		Rand:    rng,
		Saves:   service.NewSaveService(repository.NewFileStore(t.TempDir()), nil),
		Session: opts,
	})
}

type memRounds struct {
	mu     sync.Mutex
	rounds []model.Round
}

func (m *memRounds) Create(ctx context.Context, round model.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, round)
	return nil
}

func (m *memRounds) ListByPlayer(ctx context.Context, player string, limit int) ([]model.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Round
	for i := len(m.rounds) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rounds[i].Player == player {
			out = append(out, m.rounds[i])
		}
	}
	return out, nil
}

func (m *memRounds) NetByPlayer(ctx context.Context, player string) (*model.PlayerNet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	net := &model.PlayerNet{Player: player}
	for _, r := range m.rounds {
		if r.Player == player {
			net.Rounds++
			net.Net += r.Delta
		}
	}
	return net, nil
}

func TestParsePlayArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantBet    int64
		wantChoice string
		wantErr    bool
	}{
		{"bet only", []string{"5"}, 5, "", false},
		{"bet and choice", []string{"8", "Wind"}, 8, "Wind", false},
		{"negative bet parses", []string{"-3"}, -3, "", false},
		{"no args", nil, 0, "", true},
		{"not a number", []string{"five"}, 0, "", true},
		{"too many", []string{"5", "red", "black"}, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet, choice, err := parsePlayArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBet, bet)
			assert.Equal(t, tt.wantChoice, choice)
		})
	}
}

func TestSlotFor(t *testing.T) {
	assert.Equal(t, "tg-42", SlotFor(42))
	assert.NoError(t, repository.ValidateSlot(SlotFor(-1001234567890)))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "ada", displayName(&tele.User{ID: 1, Username: "ada", FirstName: "Ada"}))
	assert.Equal(t, "Ada", displayName(&tele.User{ID: 1, FirstName: "Ada"}))
	assert.Equal(t, "7", displayName(&tele.User{ID: 7}))
}

func TestMatchRoom(t *testing.T) {
	rooms := []casino.Room{{Name: casino.Lobby}, {Name: casino.BlackjackRoom}}

	name, ok := matchRoom(rooms, "  blackjack room ")
	assert.True(t, ok)
	assert.Equal(t, casino.BlackjackRoom, name)

	_, ok = matchRoom(rooms, "")
	assert.False(t, ok)
	_, ok = matchRoom(rooms, "Kitchen")
	assert.False(t, ok)
}

func TestStart(t *testing.T) {
	h := newHandler(t, session.Options{}, nil)
	ctx := context.Background()

	first := h.start(ctx, 1, "ada")
	assert.Contains(t, first, "Welcome to the Golden Casino!")
	assert.Contains(t, first, "You have 40 coins.")
	assert.Contains(t, first, "/play <bet> [choice]")

	again := h.start(ctx, 1, "ada")
	assert.Contains(t, again, "Welcome back, ada!")

	sess, created, err := h.sessionFor(1, "ada")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "ada", sess.PlayerName())
}

func TestSessionsArePerUser(t *testing.T) {
	h := newHandler(t, session.Options{StartingBalance: 100}, nil)
	ctx := context.Background()

	h.do(ctx, 1, "ada", []string{"slots"}, h.goExit)
	h.do(ctx, 1, "ada", []string{"blackjack"}, h.unlock)

	assert.Equal(t, "💰 You have 50 coins.", h.do(ctx, 1, "ada", nil, h.purse))
	assert.Equal(t, "💰 You have 100 coins.", h.do(ctx, 2, "bob", nil, h.purse))
}

func TestMovement(t *testing.T) {
	h := newHandler(t, session.Options{StartingBalance: 100}, nil)
	ctx := context.Background()

	assert.Contains(t, h.do(ctx, 1, "ada", nil, h.goExit), "Exits here: slots")
	assert.Contains(t, h.do(ctx, 1, "ada", []string{"nowhere"}, h.goExit), "You can't go that way.")
	assert.Contains(t, h.do(ctx, 1, "ada", []string{"SLOTS"}, h.goExit), "--- Slots Room ---")
	assert.Equal(t, "🔒 The Blackjack Room is locked. /unlock blackjack costs 50 coins.",
		h.do(ctx, 1, "ada", []string{"blackjack"}, h.goExit))

	assert.Contains(t, h.do(ctx, 1, "ada", []string{"blackjack"}, h.unlock), "You have successfully unlocked Blackjack Room!")
	assert.Contains(t, h.do(ctx, 1, "ada", []string{"blackjack"}, h.unlock), "That room is already unlocked.")

	assert.Contains(t, h.do(ctx, 1, "ada", []string{"roulette", "room"}, h.enter), "is locked. It costs 175 coins")
	assert.Contains(t, h.do(ctx, 1, "ada", []string{"lobby"}, h.enter), "--- Lobby ---")
	assert.Contains(t, h.do(ctx, 1, "ada", []string{"blackjack", "room"}, h.enter), "--- Blackjack Room ---")

	rooms := h.do(ctx, 1, "ada", nil, h.rooms)
	assert.Contains(t, rooms, "📍 Blackjack Room\n")
	assert.Contains(t, rooms, "Horse Race Room 🔒 100 coins")
}

func TestPlay(t *testing.T) {
	h := newHandler(t, session.Options{}, game.NewScripted(0, 1, 0, 1, 0))
	ctx := context.Background()

	assert.Equal(t, "❌ There is no game to play here.", h.do(ctx, 1, "ada", []string{"5"}, h.play))
	assert.Equal(t, "❌ Usage: /play <bet> [choice]", h.do(ctx, 1, "ada", nil, h.play))

	h.do(ctx, 1, "ada", []string{"slots"}, h.goExit)
	assert.Equal(t, "❌ The minimum bet for Slots is 2 coins.", h.do(ctx, 1, "ada", []string{"1"}, h.play))

	out := h.do(ctx, 1, "ada", []string{"2"}, h.play)
	assert.Contains(t, out, "🎲 Slots")
	assert.Contains(t, out, "Balance: 48 coins")

	assert.Contains(t, h.do(ctx, 1, "ada", nil, h.history), "slots: 2 coins - win (+8)")
}

func TestPlay_Bankruptcy(t *testing.T) {
	tests := []struct {
		mode        model.Mode
		wantText    string
		wantBalance int64
		wantRoom    string
	}{
		{model.ModeNormal, "A new game has started", 40, casino.Lobby},
		{model.ModeEasy, "A stranger in the casino gives you 50 coins", 50, casino.SlotsRoom},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			h := newHandler(t, session.Options{Mode: tt.mode}, game.NewScripted(0, 1, 2, 3, 4))
			ctx := context.Background()

			h.do(ctx, 1, "ada", []string{"slots"}, h.goExit)
			out := h.do(ctx, 1, "ada", []string{"40"}, h.play)
			assert.Contains(t, out, tt.wantText)

			sess, _, err := h.sessionFor(1, "ada")
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, sess.Balance())
			assert.Equal(t, tt.wantRoom, sess.CurrentRoom().Name)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	h := newHandler(t, session.Options{StartingBalance: 100}, nil)
	ctx := context.Background()

	assert.Equal(t, "No saved game found.", h.do(ctx, 1, "ada", nil, h.load))

	h.do(ctx, 1, "ada", []string{"slots"}, h.goExit)
	h.do(ctx, 1, "ada", []string{"blackjack"}, h.unlock)
	assert.Equal(t, "💾 Game saved successfully!", h.do(ctx, 1, "ada", nil, h.save))

	h.do(ctx, 1, "ada", []string{"lobby"}, h.goExit)
	out := h.do(ctx, 1, "ada", nil, h.load)
	assert.Contains(t, out, "Game loaded successfully!")
	assert.Contains(t, out, "--- Slots Room ---")

	// a fresh handler over the same store restores on /start
	h2 := NewCasinoHandler(h.deps)
	start := h2.start(ctx, 1, "ada")
	assert.Contains(t, start, "Your saved game was restored.")
	assert.Contains(t, start, "You have 50 coins.")
}

func TestSaveDisabled(t *testing.T) {
	h := NewCasinoHandler(Deps{
		Story:   story.Default(),
		Catalog: catalog.Default(),
		Rand:    game.NewRand(1),
	})
	ctx := context.Background()

	assert.Equal(t, "❌ Saving is not available.", h.do(ctx, 1, "ada", nil, h.save))
	assert.Equal(t, "❌ Loading is not available.", h.do(ctx, 1, "ada", nil, h.load))
	assert.Equal(t, "No bets yet.", h.do(ctx, 1, "ada", nil, h.history))
}

func TestUserLockTimeout(t *testing.T) {
	h := newHandler(t, session.Options{}, nil)
	h.deps.LockTimeout = 20 * time.Millisecond
	ctx := context.Background()

	h.userLock.Lock(1)
	assert.Equal(t, busyText, h.do(ctx, 1, "ada", nil, h.purse))
	assert.Equal(t, busyText, h.start(ctx, 1, "ada"))
	assert.Equal(t, "💰 You have 40 coins.", h.do(ctx, 2, "bob", nil, h.purse))
	h.userLock.Unlock(1)

	h.deps.LockTimeout = time.Second
	assert.Equal(t, "💰 You have 40 coins.", h.do(ctx, 1, "ada", nil, h.purse))
}

func TestHistory_RecordedPerUser(t *testing.T) {
	rounds := &memRounds{}
	h := NewCasinoHandler(Deps{
		Story:   story.Default(),
		Catalog: catalog.Default(),
		Rand:    game.NewScripted(0, 1, 0, 1, 0, 0, 1, 2, 3, 4),
		Saves:   service.NewSaveService(repository.NewFileStore(t.TempDir()), rounds),
	})
	ctx := context.Background()

	// two users who share a display name
	for _, id := range []int64{1, 2} {
		h.do(ctx, id, "alex", []string{"slots"}, h.goExit)
		h.do(ctx, id, "alex", []string{"2"}, h.play)
	}
	require.Len(t, rounds.rounds, 2)
	assert.Equal(t, SlotFor(1), rounds.rounds[0].Player)
	assert.Equal(t, SlotFor(2), rounds.rounds[1].Player)

	first := h.do(ctx, 1, "alex", nil, h.history)
	assert.Contains(t, first, "📜 Your last 1 bets:")
	assert.Contains(t, first, "slots: 2 coins - win (+8)")
	assert.Contains(t, first, "All time: 1 rounds, +8 coins")

	second := h.do(ctx, 2, "alex", nil, h.history)
	assert.Contains(t, second, "slots: 2 coins - loss (-2)")
	assert.Contains(t, second, "All time: 1 rounds, -2 coins")
	assert.NotContains(t, second, "win")
}
