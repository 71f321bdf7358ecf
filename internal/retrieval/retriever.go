// Package retrieval finds the course items most relevant to a question.
package retrieval

import (
	"context"
	"fmt"

	"github.com/hyperjump/askta/internal/embedding"
	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/internal/vector"
	"github.com/hyperjump/askta/pkg/utils"
	"go.uber.org/zap"
)

// Defaults applied by NewRetriever.
const (
	DefaultTopK       = 3
	DefaultPreviewLen = 100
)

// Result is the outcome of one retrieval.
type Result struct {
	Matches []models.RankedMatch
	Links   []models.Link
}

// Retriever embeds a question and looks up its nearest items.
type Retriever struct {
	embedder   embedding.Embedder
	index      *vector.Index
	topK       int
	previewLen int
	logger     *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithTopK sets how many matches are returned.
func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithPreviewLen sets how many characters of an item's text become its link text.
func WithPreviewLen(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.previewLen = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Retriever) {
		r.logger = utils.OrNop(logger)
	}
}

// NewRetriever returns a Retriever over index. embedder must be the one the index was built with.
func NewRetriever(embedder embedding.Embedder, index *vector.Index, opts ...Option) *Retriever {
	r := &Retriever{
		embedder:   embedder,
		index:      index,
		topK:       DefaultTopK,
		previewLen: DefaultPreviewLen,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve embeds question alone and returns its top matches and their links.
// The embedding call ignores cancellation of ctx and is bounded by the embedder's own timeout.
// Embedding failures, including a vector the index cannot compare, wrap models.ErrEmbedding.
func (r *Retriever) Retrieve(ctx context.Context, question string) (*Result, error) {
	vec, err := r.embedder.Embed(context.WithoutCancel(ctx), question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrEmbedding, err)
	}
	matches, err := r.index.Query(vec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrEmbedding, err)
	}
	if ce := r.logger.Check(zap.DebugLevel, "retrieved matches"); ce != nil {
		ids := make([]string, len(matches))
		scores := make([]float64, len(matches))
		for i, m := range matches {
			ids[i] = m.Item.ID
			scores[i] = m.Score
		}
		ce.Write(zap.Strings("item_ids", ids), zap.Float64s("scores", scores))
	}
	return &Result{Matches: matches, Links: DeriveLinks(matches, r.previewLen)}, nil
}

// DeriveLinks returns one link per match that has a URL, in rank order. The link text is the
// first previewLen characters of the item text followed by "...".
func DeriveLinks(matches []models.RankedMatch, previewLen int) []models.Link {
	links := make([]models.Link, 0, len(matches))
	for _, m := range matches {
		if !m.Item.HasURL() {
			continue
		}
		links = append(links, models.Link{
			URL:  m.Item.URL,
			Text: utils.Preview(m.Item.Text, previewLen),
		})
	}
	return links
}
