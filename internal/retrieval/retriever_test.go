package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/askta/internal/embedding"
	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingEmbedder struct{ *embedding.MockEmbedder }

func (f failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("provider unreachable")
}

type recordingEmbedder struct {
	*embedding.MockEmbedder
	texts []string
}

func (r *recordingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	r.texts = append(r.texts, text)
	return r.MockEmbedder.Embed(ctx, text)
}

func buildIndex(t *testing.T, emb embedding.Embedder, items []models.RetrievableItem) *vector.Index {
	t.Helper()
	idx, err := vector.Build(context.Background(), items, emb)
	require.NoError(t, err)
	return idx
}

func TestRetrieve_singlePostScenario(t *testing.T) {
	mock := embedding.NewMockEmbedder(32)
	post := models.RetrievableItem{
		ID:   "post:42/1",
		Kind: models.KindPost,
		Text: "Discourse Post (Thread: Setup, Post #1): Use Docker",
		URL:  "https://forum.example/t/setup-help/42/1",
	}
	idx := buildIndex(t, mock, []models.RetrievableItem{post})

	r := NewRetriever(mock, idx, WithLogger(zap.NewNop()))
	res, err := r.Retrieve(context.Background(), "How do I set up?")
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	require.Len(t, res.Links, 1)
	assert.Equal(t, "https://forum.example/t/setup-help/42/1", res.Links[0].URL)
	assert.Equal(t, post.Text+"...", res.Links[0].Text)
}

func TestRetrieve_topKAndOrder(t *testing.T) {
	mock := embedding.NewMockEmbedder(32)
	var items []models.RetrievableItem
	for _, text := range []string{"alpha", "beta", "gamma", "delta", "epsilon"} {
		items = append(items, models.RetrievableItem{ID: text, Kind: models.KindNote, Text: text})
	}
	idx := buildIndex(t, mock, items)

	res, err := NewRetriever(mock, idx).Retrieve(context.Background(), "gamma")
	require.NoError(t, err)
	require.Len(t, res.Matches, DefaultTopK)
	assert.Equal(t, "gamma", res.Matches[0].Item.ID)
	for i := 1; i < len(res.Matches); i++ {
		assert.GreaterOrEqual(t, res.Matches[i-1].Score, res.Matches[i].Score)
	}
	assert.Empty(t, res.Links, "notes carry no URL")

	res, err = NewRetriever(mock, idx, WithTopK(5)).Retrieve(context.Background(), "gamma")
	require.NoError(t, err)
	assert.Len(t, res.Matches, 5)
}

func TestRetrieve_embedsQuestionOnly(t *testing.T) {
	rec := &recordingEmbedder{MockEmbedder: embedding.NewMockEmbedder(8)}
	idx := buildIndex(t, embedding.NewMockEmbedder(8), []models.RetrievableItem{{ID: "a", Text: "a"}})
	_, err := NewRetriever(rec, idx).Retrieve(context.Background(), "What is GA1?")
	require.NoError(t, err)
	assert.Equal(t, []string{"What is GA1?"}, rec.texts)
}

func TestRetrieve_callerCancellationDoesNotAbortEmbedding(t *testing.T) {
	mock := embedding.NewMockEmbedder(8)
	idx := buildIndex(t, mock, []models.RetrievableItem{{ID: "a", Text: "a", URL: "https://forum/t/a/1/1"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRetriever(mock, idx).Retrieve(ctx, "a")
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "a", res.Matches[0].Item.ID)
}

func TestRetrieve_embeddingFailure(t *testing.T) {
	mock := embedding.NewMockEmbedder(8)
	idx := buildIndex(t, mock, []models.RetrievableItem{{ID: "a", Text: "a"}})
	_, err := NewRetriever(failingEmbedder{mock}, idx).Retrieve(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmbedding)
}

func TestRetrieve_dimensionMismatch(t *testing.T) {
	idx := buildIndex(t, embedding.NewMockEmbedder(8), []models.RetrievableItem{{ID: "a", Text: "a"}})
	_, err := NewRetriever(embedding.NewMockEmbedder(16), idx).Retrieve(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmbedding)
	assert.ErrorIs(t, err, models.ErrDimensionMismatch)
}

func TestRetrieve_emptyIndex(t *testing.T) {
	mock := embedding.NewMockEmbedder(8)
	idx := buildIndex(t, mock, nil)
	res, err := NewRetriever(mock, idx).Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	assert.Empty(t, res.Links)
}

func TestDeriveLinks(t *testing.T) {
	long := strings.Repeat("x", 150)
	matches := []models.RankedMatch{
		{Item: models.RetrievableItem{Text: "note", Kind: models.KindNote}},
		{Item: models.RetrievableItem{Text: long, URL: "https://f/t/a/1/1", Kind: models.KindPost}},
		{Item: models.RetrievableItem{Text: "short", URL: "https://f/t/b/2/1", Kind: models.KindPost}},
	}
	links := DeriveLinks(matches, 100)
	require.Len(t, links, 2)
	assert.Equal(t, "https://f/t/a/1/1", links[0].URL)
	assert.Equal(t, strings.Repeat("x", 100)+"...", links[0].Text)
	assert.Equal(t, models.Link{URL: "https://f/t/b/2/1", Text: "short..."}, links[1])

	assert.NotNil(t, DeriveLinks(nil, 100))
}
