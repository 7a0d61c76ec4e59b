package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the draw source games use. *rand.Rand satisfies it.
type Rand interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRand returns a seeded PCG source. A zero seed seeds from the clock.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// lockedRand lets several sessions share one source.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// IntRange draws a uniform int in [lo, hi].
func IntRange(r Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

// Choice draws a uniform element of items.
func Choice[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// Scripted replays fixed IntN results, for forcing draws in tests.
// Each value is the raw IntN result, so to force IntRange(r, 16, 21) to
// return 20, script 4.
type Scripted struct {
	values []int
	pos    int
}

// NewScripted returns a source that yields values in order.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// IntN returns the next scripted value. It panics when the script is
// exhausted or the value is outside [0, n).
func (s *Scripted) IntN(n int) int {
	if s.pos >= len(s.values) {
		panic("game: scripted rand exhausted")
	}
	v := s.values[s.pos]
	s.pos++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("game: scripted value %d outside [0,%d)", v, n))
	}
	return v
}

// Remaining returns how many scripted values have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.values) - s.pos
}
