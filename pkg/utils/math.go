package utils

import "math"

// L2Norm returns the Euclidean length of x, accumulated in float64.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// NormalizeL2 scales x in place to unit length and returns its original L2 norm.
// A zero vector is left unchanged and reports 0.
func NormalizeL2(x []float32) float64 {
	norm := L2Norm(x)
	if norm == 0 {
		return 0
	}
	inv := 1 / norm
	for i := range x {
		x[i] = float32(float64(x[i]) * inv)
	}
	return norm
}
