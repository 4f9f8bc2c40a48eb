// Package testutil provides deterministic fixtures for featgo tests.
package testutil

import (
	"fmt"
	"math/rand"
)

// RNG encapsulates a seeded random number generator for reproducible
// fixtures.
type RNG struct {
	rand *rand.Rand
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
	}
}

// Vector generates a random feature vector.
func (r *RNG) Vector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = r.rand.Float32()
	}
	return vec
}

// FeatureMap generates n random feature vectors keyed by synthetic entity
// IDs, together with the matching ordered ID list.
func (r *RNG) FeatureMap(n, dim int) (map[string][]float32, []string) {
	features := make(map[string][]float32, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("entity-%04d", i)
		ids[i] = id
		features[id] = r.Vector(dim)
	}
	return features, ids
}
