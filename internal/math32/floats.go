// Package math32 provides float32 vector kernels used for feature-row
// normalization. This is an internal package.
package math32

import "math"

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// Norm calculates the L2 norm of a vector.
// Accumulation happens in float64 to limit rounding error.
func Norm(a []float32) float32 {
	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}

	return float32(math.Sqrt(sum))
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// NormalizeInPlace rescales a to unit L2 norm.
// A zero vector is left unchanged; this is not an error.
func NormalizeInPlace(a []float32) {
	n := Norm(a)
	if n == 0 {
		return
	}
	ScaleInPlace(a, 1/n)
}
