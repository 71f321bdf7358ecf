// Package vector holds the in-memory similarity index over course items.
package vector

import (
	"context"
	"fmt"
	"sort"

	"github.com/hyperjump/askta/internal/embedding"
	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultConcurrency bounds concurrent embedding calls during Build.
const DefaultConcurrency = 4

// Index pairs every item with one embedding vector. It is read-only once built,
// so concurrent Query calls need no locking.
type Index struct {
	dimensions int
	items      []models.RetrievableItem
	vectors    [][]float32
	norms      []float64
	degraded   int
}

type buildOptions struct {
	logger      *zap.Logger
	concurrency int
	limiter     *rate.Limiter
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithLogger sets the logger used to report per-item embedding failures.
func WithLogger(logger *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		o.logger = utils.OrNop(logger)
	}
}

// WithConcurrency bounds how many items are embedded at once.
func WithConcurrency(n int) BuildOption {
	return func(o *buildOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithRequestsPerSecond paces embedding calls. Zero or negative disables pacing.
func WithRequestsPerSecond(rps float64) BuildOption {
	return func(o *buildOptions) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// Build embeds every item and returns the index. An item whose embedding fails, or comes back with
// the wrong width, gets a zero vector and is counted as degraded; it always scores 0.
// Build fails only for a non-positive embedder width or a cancelled context.
func Build(ctx context.Context, items []models.RetrievableItem, embedder embedding.Embedder, opts ...BuildOption) (*Index, error) {
	o := &buildOptions{logger: zap.NewNop(), concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(o)
	}
	dims := embedder.Dimensions()
	if dims <= 0 {
		return nil, fmt.Errorf("embedder reports invalid dimensions %d", dims)
	}

	vectors := make([][]float32, len(items))

	g := new(errgroup.Group)
	g.SetLimit(o.concurrency)
	for i := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vec, err := embedOne(ctx, embedder, o.limiter, items[i].Text, dims)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				o.logger.Warn("embedding failed, using zero vector",
					zap.String("item_id", items[i].ID),
					zap.Error(err))
				vec = make([]float32, dims)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("index build cancelled: %w", err)
	}

	idx, err := NewIndex(items, vectors)
	if err != nil {
		return nil, err
	}
	idx.dimensions = dims
	o.logger.Info("similarity index built",
		zap.Int("items", idx.Size()),
		zap.Int("degraded", idx.degraded),
		zap.Int("dimensions", dims))
	return idx, nil
}

func embedOne(ctx context.Context, embedder embedding.Embedder, limiter *rate.Limiter, text string, dims int) ([]float32, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	vec, err := embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) != dims {
		return nil, fmt.Errorf("%w: got %d, expected %d", models.ErrDimensionMismatch, len(vec), dims)
	}
	return vec, nil
}

// NewIndex builds an index from precomputed vectors. items and vectors must have equal
// length and every vector must have the same width.
func NewIndex(items []models.RetrievableItem, vectors [][]float32) (*Index, error) {
	if len(items) != len(vectors) {
		return nil, fmt.Errorf("items and vectors length mismatch: %d vs %d", len(items), len(vectors))
	}
	idx := &Index{
		items:   make([]models.RetrievableItem, len(items)),
		vectors: make([][]float32, len(vectors)),
		norms:   make([]float64, len(vectors)),
	}
	copy(idx.items, items)
	for i, v := range vectors {
		if i == 0 {
			idx.dimensions = len(v)
		}
		if len(v) != idx.dimensions {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, expected %d", models.ErrDimensionMismatch, i, len(v), idx.dimensions)
		}
		vec := make([]float32, len(v))
		copy(vec, v)
		idx.vectors[i] = vec
		idx.norms[i] = L2Norm(vec)
		if idx.norms[i] == 0 {
			idx.degraded++
		}
	}
	return idx, nil
}

// Query returns up to k items with the highest cosine similarity to query, best first.
// Equal scores keep insertion order. Items with a zero vector report a score of 0 and
// always rank after every other item. An empty index or k <= 0 yields an empty result.
func (idx *Index) Query(query []float32, k int) ([]models.RankedMatch, error) {
	if k <= 0 || len(idx.items) == 0 {
		return []models.RankedMatch{}, nil
	}
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", models.ErrDimensionMismatch, len(query), idx.dimensions)
	}

	qNorm := L2Norm(query)
	scores := make([]float64, len(idx.vectors))
	order := make([]int, len(idx.vectors))
	for i, vec := range idx.vectors {
		scores[i] = cosine(InnerProduct(query, vec), qNorm, idx.norms[i])
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		liveA, liveB := idx.norms[order[a]] != 0, idx.norms[order[b]] != 0
		if liveA != liveB {
			return liveA
		}
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	matches := make([]models.RankedMatch, k)
	for r := 0; r < k; r++ {
		i := order[r]
		matches[r] = models.RankedMatch{Item: idx.items[i], Score: scores[i]}
	}
	return matches, nil
}

// Size returns the number of indexed items.
func (idx *Index) Size() int {
	return len(idx.items)
}

// Dimensions returns the vector width. NewIndex with no items reports 0.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Degraded returns how many items hold a zero vector and so always score 0.
func (idx *Index) Degraded() int {
	return idx.degraded
}
