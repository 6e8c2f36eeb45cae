// Package entropy provides the simulation's randomness source.
// A seeded Source yields a deterministic stream so runs can be replayed;
// a nil Source falls back to crypto/rand for unseeded operation.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// Source is a seedable stream of random draws. All stochastic decisions
// in the simulation (tree spawns, weather rolls, event choices) go
// through a Source handed in from the outside — never package-level rand.
type Source struct {
	rng *mathrand.Rand
}

// NewSource creates a deterministic source from a seed.
func NewSource(seed int64) *Source {
	return &Source{rng: mathrand.New(mathrand.NewSource(seed))}
}

// Float returns a random float64 in [0, 1).
func (s *Source) Float() float64 {
	if s == nil {
		return cryptoRandFloat()
	}
	return s.rng.Float64()
}

// Intn returns a random int in [0, n).
func (s *Source) Intn(n int) int {
	if s == nil {
		return int(cryptoRandFloat() * float64(n))
	}
	return s.rng.Intn(n)
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.Float() < p
}

// WeightedIndex picks an index with probability proportional to its weight.
// Returns 0 when the weights sum to zero.
func (s *Source) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	roll := s.Float() * total
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
