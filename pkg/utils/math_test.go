package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	tests := []struct {
		name     string
		in       []float32
		want     []float32
		wantNorm float64
	}{
		{"3-4-5", []float32{3, 4}, []float32{0.6, 0.8}, 5},
		{"already unit", []float32{0, 1, 0}, []float32{0, 1, 0}, 1},
		{"zero vector unchanged", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm := NormalizeL2(tt.in)
			if math.Abs(norm-tt.wantNorm) > 1e-9 {
				t.Errorf("norm = %f, want %f", norm, tt.wantNorm)
			}
			for i := range tt.want {
				if math.Abs(float64(tt.in[i]-tt.want[i])) > 1e-6 {
					t.Fatalf("got %v, want %v", tt.in, tt.want)
				}
			}
		})
	}
}

func TestL2Norm(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want float64
	}{
		{"3-4-5", []float32{3, 4}, 5},
		{"negative", []float32{-1, 2, -2}, 3},
		{"zero", []float32{0, 0}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float32(nil), tt.in...)
			if got := L2Norm(in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("L2Norm() = %f, want %f", got, tt.want)
			}
			for i := range tt.in {
				if in[i] != tt.in[i] {
					t.Fatalf("L2Norm modified its input: %v", in)
				}
			}
		})
	}
}
