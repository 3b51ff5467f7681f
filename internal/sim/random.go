package sim

import "math/rand"

// RandomSource supplies every stochastic decision the engine makes. A
// fixed source fully determines a run: same seed, same population,
// same snapshots and events. *math/rand.Rand satisfies it.
type RandomSource interface {
	// Float64 returns a draw in [0.0, 1.0).
	Float64() float64
	// Intn returns a uniform int in [0, n). Panics when n <= 0.
	Intn(n int) int
}

// NewRandomSource returns a deterministic source seeded with seed.
func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation randomness, not security
}
