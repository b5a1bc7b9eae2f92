package views

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Seeder supplies the starting count for a post that has never been counted.
// Implementations return a value in [lo, hi) or a fixed baseline.
type Seeder interface {
	Seed(lo, hi int) int
}

// Baseline seeds every post with the same value, ignoring the range.
type Baseline struct {
	Value int
}

func (b Baseline) Seed(_, _ int) int {
	if b.Value < 0 {
		return 0
	}
	return b.Value
}

// Random seeds posts with pseudo-random counts drawn from the requested range.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random seeder. A zero seed uses the current time.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *Random) Seed(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rng.IntN(hi-lo)
}
