package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	assert.Equal(t, float32(0), Dot(nil, nil))
	assert.Equal(t, float32(11), Dot([]float32{1, 2, 3}, []float32{3, 1, 2}))
}

func TestNorm(t *testing.T) {
	assert.Equal(t, float32(0), Norm([]float32{0, 0, 0}))
	assert.InDelta(t, 5.0, Norm([]float32{3, 4}), 1e-6)
}

func TestNormalizeInPlace(t *testing.T) {
	t.Run("UnitNorm", func(t *testing.T) {
		v := []float32{3, 4, 0}
		NormalizeInPlace(v)
		assert.InDelta(t, 1.0, Norm(v), 1e-6)
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("ZeroVectorStaysZero", func(t *testing.T) {
		v := make([]float32, 8)
		NormalizeInPlace(v)
		for _, x := range v {
			assert.Equal(t, float32(0), x)
		}
	})
}
