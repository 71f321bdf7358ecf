package embedding

import (
	"context"
	"math"
	"strings"

	"github.com/hyperjump/askta/pkg/utils"
)

// textSignal is the total weight of the per-text component relative to one word feature.
const textSignal = 0.25

// MockEmbedder is a deterministic offline embedder. Each word is hashed into one signed bucket
// (feature hashing), so texts that share words point in similar directions; a small component
// seeded by the whole text keeps distinct texts from ever sharing a vector.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns a MockEmbedder of the given width (384 when non-positive).
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns the unit-length embedding for text.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emb := make([]float32, e.dimensions)
	for _, word := range SplitWords(strings.ToLower(text)) {
		h := HashString(word)
		sign := float32(1)
		if h&1 == 1 {
			sign = -1
		}
		emb[(h>>1)%e.dimensions] += sign
	}
	seed := float64(HashString(text))
	amp := textSignal / math.Sqrt(float64(e.dimensions))
	for i := range emb {
		emb[i] += float32(math.Sin(seed*float64(i+1)) * amp)
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch embeds each text in order.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedEach(ctx, texts, e.Embed)
}

// Dimensions returns the embedding width.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *MockEmbedder) Close() error {
	return nil
}
