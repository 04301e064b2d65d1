package selection

import "math/rand/v2"

// Source supplies the randomness used by the selector. *rand.Rand from
// math/rand/v2 satisfies it; tests use a seeded one for reproducible picks.
type Source interface {
	// Shuffle pseudo-randomizes the order of n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a deterministic Source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DefaultSource returns a Source seeded from the runtime's random generator.
func DefaultSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
