package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()
	e := NewMockEmbedder(8)
	a, err := e.Embed(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 8 {
		t.Fatalf("len = %d", len(a))
	}
	b, _ := e.Embed(ctx, "hello")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("embedding should be deterministic")
		}
	}
	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("embedding should be unit length, |v|^2 = %f", sum)
	}
	if NewMockEmbedder(0).Dimensions() != 384 {
		t.Error("non-positive dimensions should default to 384")
	}
}

func TestMockEmbedder_cancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockEmbedder(4).Embed(ctx, "x"); err == nil {
		t.Error("expected context error")
	}
}

func TestMockEmbedder_sharedWordsScoreHigher(t *testing.T) {
	ctx := context.Background()
	e := NewMockEmbedder(256)
	q, _ := e.Embed(ctx, "docker setup on windows")
	near, _ := e.Embed(ctx, "docker setup on linux")
	far, _ := e.Embed(ctx, "pandas merge error")
	if dot(q, near) <= dot(q, far) {
		t.Errorf("dot(near) = %f, dot(far) = %f", dot(q, near), dot(q, far))
	}
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
