package config

import "time"

// Embedding provider names accepted in embedding.provider.
const (
	ProviderOpenAI = "openai"
	ProviderONNX   = "onnx"
	ProviderMock   = "mock"
)

// DefaultPersona is the course-specific instruction that opens every grounding prompt.
const DefaultPersona = "You are a virtual Teaching Assistant for the Tools in Data Science course (Jan 2025, IIT Madras). " +
	"Answer the student question based on the provided context from course content and Discourse posts (Jan 1 to Apr 14, 2025). " +
	"Include relevant Discourse links if applicable."

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 16 << 20
	}
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "./data.json"
	}
	if cfg.Corpus.ForumBaseURL == "" {
		cfg.Corpus.ForumBaseURL = "https://discourse.onlinedegree.iitm.ac.in"
	}
	if cfg.Corpus.ItemTextLimit == 0 {
		cfg.Corpus.ItemTextLimit = 4000
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = ProviderOpenAI
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://aipipe.org/openai/v1"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "AIPIPE_TOKEN"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 60 * time.Second
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 1000
	}
	if cfg.Embedding.Concurrency == 0 {
		cfg.Embedding.Concurrency = 4
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = cfg.Embedding.BaseURL
	}
	if cfg.Completion.APIKeyEnv == "" {
		cfg.Completion.APIKeyEnv = cfg.Embedding.APIKeyEnv
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "openai/gpt-3.5-turbo-0125"
	}
	if cfg.Completion.Timeout == 0 {
		cfg.Completion.Timeout = 20 * time.Second
	}
	if cfg.Completion.SystemPrompt == "" {
		cfg.Completion.SystemPrompt = "You are a helpful TA for TDS."
	}
	if cfg.Answer.TopK == 0 {
		cfg.Answer.TopK = 3
	}
	if cfg.Answer.ContextBudget == 0 {
		cfg.Answer.ContextBudget = 8000
	}
	if cfg.Answer.LinkPreviewChars == 0 {
		cfg.Answer.LinkPreviewChars = 100
	}
	if cfg.Answer.Persona == "" {
		cfg.Answer.Persona = DefaultPersona
	}
}
