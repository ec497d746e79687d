// internal/random/random.go
package random

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed values in [0, 1).
type Source interface {
	Float64() float64
}

// locked serialises access to a *rand.Rand, which is not safe for concurrent use.
type locked struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// New returns a goroutine-safe source seeded with seed.
func New(seed uint64) Source {
	return &locked{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Default returns a source seeded from the runtime generator.
func Default() Source {
	return New(rand.Uint64())
}

// Sequence replays fixed values in order and wraps around when exhausted.
// An empty sequence always returns 0.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// IntBetween draws an integer in [lo, hi] inclusive.
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := lo + int(math.Floor(src.Float64()*float64(hi-lo+1)))
	if n > hi {
		n = hi
	}
	return n
}

// Jitter draws a value in [-spread, +spread).
func Jitter(src Source, spread float64) float64 {
	return (src.Float64() - 0.5) * 2 * spread
}

// Pick returns a uniformly chosen index in [0, n).
func Pick(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	return IntBetween(src, 0, n-1)
}
