package embedding

import (
	"fmt"

	"github.com/hyperjump/askta/internal/config"
)

// NewFromConfig builds the embedder selected by cfg.Provider, wrapped in an LRU cache when
// cfg.CacheSize is positive.
func NewFromConfig(cfg config.EmbeddingConfig) (Embedder, error) {
	var inner Embedder
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		key := cfg.APIKey()
		if key == "" {
			return nil, fmt.Errorf("embedding provider %q: environment variable %s is not set", config.ProviderOpenAI, cfg.APIKeyEnv)
		}
		e, err := NewOpenAIEmbedder(OpenAIConfig{
			APIKey:     key,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		inner = e
	case config.ProviderONNX:
		e, err := NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		inner = e
	case config.ProviderMock:
		inner = NewMockEmbedder(cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
	if cfg.CacheSize > 0 {
		return NewCachedEmbedder(inner, cfg.CacheSize), nil
	}
	return inner, nil
}
