package main

import (
	"context"
	"fmt"

	"github.com/hyperjump/askta/internal/answer"
	"github.com/hyperjump/askta/internal/assistant"
	"github.com/hyperjump/askta/internal/config"
	"github.com/hyperjump/askta/internal/corpus"
	"github.com/hyperjump/askta/internal/embedding"
	"github.com/hyperjump/askta/internal/llm"
	"github.com/hyperjump/askta/internal/retrieval"
	"github.com/hyperjump/askta/internal/vector"
	"go.uber.org/zap"
)

// Components holds the pipeline built at startup.
type Components struct {
	Embedder  embedding.Embedder
	Index     *vector.Index
	Assistant *assistant.Assistant
}

// Close releases the embedder.
func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func newNormalizer(cfg *config.Config, logger *zap.Logger) *corpus.Normalizer {
	return corpus.NewNormalizer(
		corpus.WithLogger(logger),
		corpus.WithForumBaseURL(cfg.Corpus.ForumBaseURL),
		corpus.WithTextLimit(cfg.Corpus.ItemTextLimit),
	)
}

// initializeComponents loads the corpus, embeds every item and wires the answering pipeline.
// It blocks until the index is built or ctx is cancelled.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	completer, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  cfg.Completion.APIKey(),
		BaseURL: cfg.Completion.BaseURL,
		Model:   cfg.Completion.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize completion client (set %s): %w", cfg.Completion.APIKeyEnv, err)
	}

	items, err := corpus.Load(cfg.Corpus.Path, newNormalizer(cfg, logger))
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewFromConfig(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	idx, err := vector.Build(ctx, items, embedder,
		vector.WithLogger(logger),
		vector.WithConcurrency(cfg.Embedding.Concurrency),
		vector.WithRequestsPerSecond(cfg.Embedding.RequestsPerSecond),
	)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to build vector index: %w", err)
	}

	stats := corpus.Summarize(items)
	status := assistant.Status{
		Items:           idx.Size(),
		Notes:           stats.Notes,
		Posts:           stats.Posts,
		DegradedItems:   idx.Degraded(),
		Dimensions:      idx.Dimensions(),
		EmbeddingModel:  embeddingModelName(cfg.Embedding),
		CompletionModel: completer.Model(),
	}
	logger.Info("answering pipeline ready",
		zap.Int("items", status.Items),
		zap.Int("degraded", status.DegradedItems),
		zap.Int("dimensions", status.Dimensions),
		zap.String("embedding_model", status.EmbeddingModel),
		zap.String("completion_model", status.CompletionModel))
	if status.Items > 0 && status.DegradedItems == status.Items {
		logger.Warn("every item failed to embed; answers will have no context")
	}

	retriever := retrieval.NewRetriever(embedder, idx,
		retrieval.WithTopK(cfg.Answer.TopK),
		retrieval.WithPreviewLen(cfg.Answer.LinkPreviewChars),
		retrieval.WithLogger(logger),
	)
	synthesizer := answer.NewSynthesizer(completer,
		answer.WithPersona(cfg.Answer.Persona),
		answer.WithSystemPrompt(cfg.Completion.SystemPrompt),
		answer.WithContextBudget(cfg.Answer.ContextBudget),
		answer.WithTimeout(cfg.Completion.Timeout),
		answer.WithJSONMode(cfg.Completion.JSONMode),
		answer.WithLogger(logger),
	)

	return &Components{
		Embedder:  embedder,
		Index:     idx,
		Assistant: assistant.New(retriever, synthesizer, status, logger),
	}, nil
}

func embeddingModelName(cfg config.EmbeddingConfig) string {
	switch cfg.Provider {
	case config.ProviderONNX:
		return "onnx:" + cfg.ModelPath
	case config.ProviderMock:
		return "mock"
	default:
		return cfg.Model
	}
}
