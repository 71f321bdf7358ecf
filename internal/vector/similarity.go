package vector

import (
	"math"

	"github.com/hyperjump/askta/pkg/utils"
)

// InnerProduct returns the inner product of two vectors, or 0 when their lengths differ.
func InnerProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// L2Norm returns the L2 norm of a vector.
func L2Norm(x []float32) float64 {
	return utils.L2Norm(x)
}

// CosineSimilarity returns dot(a,b)/(|a||b|) in [-1, 1].
// It is 0 when either vector has zero norm or the lengths differ, never NaN.
func CosineSimilarity(a, b []float32) float64 {
	return cosine(InnerProduct(a, b), L2Norm(a), L2Norm(b))
}

func cosine(dot, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	s := dot / (normA * normB)
	switch {
	case math.IsNaN(s):
		return 0
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return s
}
