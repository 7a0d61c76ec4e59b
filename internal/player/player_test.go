package player

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNew(t *testing.T) {
	p := New("Ada", DefaultStartingBalance)
	assert.Equal(t, "Ada", p.Name())
	assert.Equal(t, int64(40), p.Balance())
	assert.Equal(t, int64(0), p.JackpotWins())

	assert.Equal(t, int64(0), New("neg", -5).Balance())
}

func TestPlayerDebit(t *testing.T) {
	tests := []struct {
		msg     string
		balance int64
		amount  int64
		want    int64
		err     error
	}{
		{msg: "identity operation", balance: 40, amount: 0, want: 40},
		{msg: "partial debit", balance: 40, amount: 15, want: 25},
		{msg: "debit everything", balance: 40, amount: 40, want: 0},
		{msg: "overdraw", balance: 40, amount: 41, want: 40, err: ErrInsufficientFunds},
		{msg: "negative amount", balance: 40, amount: -1, want: 40, err: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			p := New("p", tt.balance)
			err := p.Debit(tt.amount)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, p.Balance())
		})
	}
}

func TestPlayerCredit(t *testing.T) {
	p := New("p", 10)
	require.NoError(t, p.Credit(5))
	assert.Equal(t, int64(15), p.Balance())

	assert.ErrorIs(t, p.Credit(-1), ErrInvalidAmount)
	assert.Equal(t, int64(15), p.Balance())
}

func TestPlayerCredit_Overflow(t *testing.T) {
	p := New("p", math.MaxInt64-5)
	assert.Equal(t, int64(5), p.Headroom())

	assert.ErrorIs(t, p.Credit(6), ErrBalanceOverflow)
	assert.Equal(t, int64(math.MaxInt64-5), p.Balance())

	require.NoError(t, p.Credit(5))
	assert.Equal(t, int64(math.MaxInt64), p.Balance())
	assert.Equal(t, int64(0), p.Headroom())
}

func TestRecordJackpot(t *testing.T) {
	p := New("p", 0)
	p.RecordJackpot()
	p.RecordJackpot()
	assert.Equal(t, int64(2), p.JackpotWins())
}

func TestRestore(t *testing.T) {
	p, err := Restore("Ada", 120, 3)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name())
	assert.Equal(t, int64(120), p.Balance())
	assert.Equal(t, int64(3), p.JackpotWins())

	_, err = Restore("Ada", -1, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

// TestCreditDebitRoundTripProperty checks that crediting and then debiting
// the same amount leaves the balance where it started.
func TestCreditDebitRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.Int64Range(0, 1_000_000).Draw(t, "start")
		amount := rapid.Int64Range(0, 1_000_000).Draw(t, "amount")

		p := New("p", start)
		if err := p.Credit(amount); err != nil {
			t.Fatalf("Credit(%d) failed: %v", amount, err)
		}
		if err := p.Debit(amount); err != nil {
			t.Fatalf("Debit(%d) failed: %v", amount, err)
		}
		if p.Balance() != start {
			t.Fatalf("balance %d after credit/debit of %d, want %d", p.Balance(), amount, start)
		}
	})
}

// TestBalanceNeverNegativeProperty applies random debits and credits and
// checks the balance never drops below zero.
func TestBalanceNeverNegativeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := New("p", rapid.Int64Range(0, 500).Draw(t, "start"))
		ops := rapid.SliceOfN(rapid.Int64Range(-500, 500), 1, 50).Draw(t, "ops")

		for _, op := range ops {
			before := p.Balance()
			if op >= 0 {
				_ = p.Credit(op)
				continue
			}
			if err := p.Debit(-op); err != nil && p.Balance() != before {
				t.Fatalf("failed debit of %d changed balance %d -> %d", -op, before, p.Balance())
			}
			if p.Balance() < 0 {
				t.Fatalf("balance went negative: %d", p.Balance())
			}
		}
	})
}
