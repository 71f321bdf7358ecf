package vector

import (
	"math"
	"math/rand"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"zero a", []float32{0, 0}, []float32{1, 1}, 0},
		{"zero b", []float32{1, 1}, []float32{0, 0}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_rangeAndSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		a := make([]float32, 16)
		b := make([]float32, 16)
		for i := range a {
			a[i] = r.Float32()*2 - 1
			b[i] = r.Float32()*2 - 1
		}
		ab := CosineSimilarity(a, b)
		ba := CosineSimilarity(b, a)
		if ab < -1 || ab > 1 {
			t.Fatalf("similarity %f out of range", ab)
		}
		if math.IsNaN(ab) {
			t.Fatal("similarity is NaN")
		}
		if math.Abs(ab-ba) > 1e-12 {
			t.Fatalf("not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestL2Norm(t *testing.T) {
	if got := L2Norm([]float32{3, 4}); got != 5 {
		t.Errorf("L2Norm = %f, want 5", got)
	}
	if got := L2Norm(nil); got != 0 {
		t.Errorf("L2Norm(nil) = %f", got)
	}
}

func TestInnerProduct(t *testing.T) {
	if got := InnerProduct([]float32{1, 2}, []float32{3, 4}); got != 11 {
		t.Errorf("InnerProduct = %f, want 11", got)
	}
	if got := InnerProduct([]float32{1}, []float32{1, 2}); got != 0 {
		t.Errorf("mismatched lengths should give 0, got %f", got)
	}
}
