// Package assistant answers one student question end to end: retrieve, then synthesize.
package assistant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/askta/internal/answer"
	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/internal/retrieval"
	"github.com/hyperjump/askta/pkg/utils"
	"go.uber.org/zap"
)

// Status describes the loaded corpus and the models in use.
type Status struct {
	Items           int    `json:"items"`
	Notes           int    `json:"notes"`
	Posts           int    `json:"posts"`
	DegradedItems   int    `json:"degraded_items"`
	Dimensions      int    `json:"dimensions"`
	EmbeddingModel  string `json:"embedding_model,omitempty"`
	CompletionModel string `json:"completion_model,omitempty"`
}

// Assistant composes a Retriever and a Synthesizer.
type Assistant struct {
	retriever   *retrieval.Retriever
	synthesizer *answer.Synthesizer
	status      Status
	logger      *zap.Logger
}

// New returns an Assistant. status is reported as-is by Status.
func New(retriever *retrieval.Retriever, synthesizer *answer.Synthesizer, status Status, logger *zap.Logger) *Assistant {
	return &Assistant{
		retriever:   retriever,
		synthesizer: synthesizer,
		status:      status,
		logger:      utils.OrNop(logger),
	}
}

const questionLogChars = 80

type requestIDKey struct{}

// WithRequestID attaches a request id used in logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id on ctx, or "" when none is set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Ask validates req, retrieves context for its question and synthesizes an answer.
// A bad image never fails the request. Errors wrap models.ErrInvalidRequest,
// models.ErrEmbedding or models.ErrCompletion.
func (a *Assistant) Ask(ctx context.Context, req models.AskRequest) (*models.QueryResult, error) {
	reqID := RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	log := a.logger.With(zap.String("request_id", reqID))
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	media, err := answer.DescribeMedia(req.EncodedImage())
	if err != nil {
		log.Warn("image ignored", zap.Error(err))
	}

	retrieved, err := a.retriever.Retrieve(ctx, req.Question)
	if err != nil {
		log.Error("retrieval failed", zap.Error(err))
		return nil, err
	}

	result, err := a.synthesizer.Synthesize(ctx, req.Question, media, retrieved.Matches, retrieved.Links)
	if err != nil {
		return nil, err
	}

	log.Info("question answered",
		zap.String("question", utils.Truncate(req.Question, questionLogChars)),
		zap.Int("matches", len(retrieved.Matches)),
		zap.Int("links", len(result.Links)),
		zap.Bool("image", media != ""),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// Status returns the corpus and model summary.
func (a *Assistant) Status() Status {
	return a.status
}
