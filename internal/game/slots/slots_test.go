package slots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"golden-casino/internal/game"
	"golden-casino/internal/player"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		reels       [Reels]int
		wantMult    int64
		wantJackpot bool
	}{
		{"five identical", [Reels]int{4, 4, 4, 4, 4}, 10, true},
		{"two distinct 4+1", [Reels]int{0, 0, 0, 0, 1}, 5, false},
		{"two distinct 3+2", [Reels]int{2, 3, 2, 3, 2}, 5, false},
		{"three distinct", [Reels]int{0, 1, 2, 0, 1}, 2, false},
		{"three distinct 3+1+1", [Reels]int{0, 0, 0, 1, 2}, 2, false},
		{"four distinct", [Reels]int{0, 1, 2, 3, 0}, 0, false},
		{"all distinct", [Reels]int{0, 1, 2, 3, 4}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mult, jackpot := Evaluate(tt.reels)
			assert.Equal(t, tt.wantMult, mult)
			assert.Equal(t, tt.wantJackpot, jackpot)
		})
	}
}

func TestSlots_Interface(t *testing.T) {
	s := New(nil)
	assert.Equal(t, "Slots", s.Name())
	assert.Equal(t, "slots", s.Command())
	assert.Equal(t, int64(DefaultMinBet), s.MinBet())
	assert.Nil(t, s.Choices())

	assert.Equal(t, int64(7), New(&Config{MinBet: 7}).MinBet())
}

func TestSlots_PlayJackpot(t *testing.T) {
	s := New(nil)
	p := player.New("p", 40)

	res, err := s.Play(context.Background(), p, 4, game.NewScripted(3, 3, 3, 3, 3), nil)
	require.NoError(t, err)

	assert.Equal(t, game.OutcomeWin, res.Outcome)
	assert.Equal(t, int64(40), res.Payout)
	assert.Equal(t, int64(36), res.Delta) // +9x bet net
	assert.True(t, res.Jackpot)
	assert.Equal(t, int64(76), p.Balance())
	assert.Equal(t, int64(1), p.JackpotWins())
	assert.Contains(t, res.Description, "Jackpot")
}

func TestSlots_PlayTwoDistinctScenario(t *testing.T) {
	s := New(nil)
	p := player.New("p", 40)

	res, err := s.Play(context.Background(), p, 2, game.NewScripted(0, 1, 0, 1, 0), nil)
	require.NoError(t, err)

	assert.Equal(t, game.OutcomeWin, res.Outcome)
	assert.Equal(t, int64(48), p.Balance()) // 40 - 2 + 5*2
	assert.Equal(t, int64(0), p.JackpotWins())
}

func TestSlots_PlayLoss(t *testing.T) {
	s := New(nil)
	p := player.New("p", 40)

	res, err := s.Play(context.Background(), p, 2, game.NewScripted(0, 1, 2, 3, 4), nil)
	require.NoError(t, err)

	assert.Equal(t, game.OutcomeLoss, res.Outcome)
	assert.Equal(t, int64(-2), res.Delta)
	assert.Equal(t, int64(38), p.Balance())
}

func TestSlots_PlayRejected(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name    string
		balance int64
		bet     int64
		wantErr error
	}{
		{"below minimum", 40, 1, game.ErrBetTooLow},
		{"zero bet", 40, 0, game.ErrBetTooLow},
		{"more than balance", 3, 4, player.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := player.New("p", tt.balance)
			rng := game.NewScripted(0, 0, 0, 0, 0)

			_, err := s.Play(context.Background(), p, tt.bet, rng, nil)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.balance, p.Balance())
			assert.Equal(t, 5, rng.Remaining(), "no draw on a rejected bet")
		})
	}
}

// TestSlotsPayoutClassificationProperty checks that every spin falls into
// exactly one payout class determined by its distinct symbol count.
func TestSlotsPayoutClassificationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var reels [Reels]int
		for i := range reels {
			reels[i] = rapid.IntRange(0, len(Symbols)-1).Draw(t, "reel")
		}

		mult, jackpot := Evaluate(reels)
		distinct := Distinct(reels)

		var want int64
		switch distinct {
		case 1:
			want = JackpotMultiplier
		case 2:
			want = TwoKindMultiplier
		case 3:
			want = ThreeKindMultiplier
		}
		if mult != want {
			t.Fatalf("reels %v (%d distinct): multiplier %d, want %d", reels, distinct, mult, want)
		}
		if jackpot != (distinct == 1) {
			t.Fatalf("reels %v: jackpot=%v with %d distinct", reels, jackpot, distinct)
		}
	})
}

// TestSlotsBalanceProperty checks that a spin changes the balance by exactly
// the reported delta.
func TestSlotsBalanceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.Int64Range(DefaultMinBet, 10000).Draw(t, "start")
		bet := rapid.Int64Range(DefaultMinBet, start).Draw(t, "bet")
		draws := make([]int, Reels)
		for i := range draws {
			draws[i] = rapid.IntRange(0, len(Symbols)-1).Draw(t, "draw")
		}

		p := player.New("p", start)
		res, err := New(nil).Play(context.Background(), p, bet, game.NewScripted(draws...), nil)
		if err != nil {
			t.Fatalf("Play(%d) with balance %d: %v", bet, start, err)
		}
		if p.Balance() != start+res.Delta {
			t.Fatalf("balance %d, want %d + %d", p.Balance(), start, res.Delta)
		}
	})
}
