package app

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource is the bounded-integer primitive the generator draws from.
type RandomSource interface {
	// IntRange returns a uniform integer in [min, max].
	IntRange(min, max int) int
	// Shuffle permutes n elements uniformly using swap.
	Shuffle(n int, swap func(i, j int))
}

// LockedRandom is a RandomSource safe for concurrent use.
type LockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a deterministic source for the given seed.
func NewRandomSource(seed uint64) *LockedRandom {
	return &LockedRandom{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewTimeSeededSource seeds from the wall clock.
func NewTimeSeededSource() *LockedRandom {
	return NewRandomSource(uint64(time.Now().UnixNano()))
}

func (r *LockedRandom) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rnd.IntN(max-min+1)
}

// Shuffle is a Fisher-Yates shuffle; the lock is held for the whole permutation.
func (r *LockedRandom) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}
