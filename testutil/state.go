package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// State returns a normalized wavefunction of dim amplitudes with Gaussian real
// and imaginary parts.
func (r *RNG) State(dim int) []complex128 {
	r.mu.Lock()
	vec := make([]complex128, dim)
	for i := range vec {
		vec[i] = complex(r.rand.NormFloat64(), r.rand.NormFloat64())
	}
	r.mu.Unlock()

	Normalize(vec)
	return vec
}

// Normalize scales vec to unit norm in place. A zero vector is left unchanged.
func Normalize(vec []complex128) {
	var n float64
	for _, w := range vec {
		n += real(w)*real(w) + imag(w)*imag(w)
	}
	if n == 0 {
		return
	}
	s := complex(1/math.Sqrt(n), 0)
	for i := range vec {
		vec[i] *= s
	}
}

// Embed re-indexes a canonical wavefunction into the grand-canonical basis of
// dimension dim, where the index of a state is its pattern.
func Embed(vec []complex128, patterns []uint64, dim int) []complex128 {
	out := make([]complex128, dim)
	for j, p := range patterns {
		out[p] = vec[j]
	}
	return out
}

// Superpose builds a normalized state from pattern amplitudes over an
// ascending pattern list.
func Superpose(patterns []uint64, amps map[uint64]complex128) []complex128 {
	vec := make([]complex128, len(patterns))
	for j, p := range patterns {
		vec[j] = amps[p]
	}
	Normalize(vec)
	return vec
}
