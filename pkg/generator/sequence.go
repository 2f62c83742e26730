package generator

import (
	"math/rand/v2"
	"sync"
)

// Sequence hands out consecutive seeds for one base. It is safe for
// concurrent use.
type Sequence struct {
	mu   sync.Mutex
	base uint64
	next uint64
}

// NewSequence starts a sequence at generation zero. A zero base draws a random
// one so separate processes render different grids.
func NewSequence(base uint64) *Sequence {
	for base == 0 {
		base = rand.Uint64()
	}
	return &Sequence{base: base}
}

// Base returns the base seed shared by every generation of the sequence.
func (s *Sequence) Base() uint64 {
	return s.base
}

// Next returns the next seed and advances the counter.
func (s *Sequence) Next() Seed {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := Seed{Base: s.base, Generation: s.next}
	s.next++
	return seed
}

// Peek returns the seed Next would return without advancing.
func (s *Sequence) Peek() Seed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Seed{Base: s.base, Generation: s.next}
}
