// Package config provides configuration loading and structs for the askta server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Completion CompletionConfig `yaml:"completion"`
	Answer     AnswerConfig     `yaml:"answer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

// CorpusConfig locates the pre-scraped course corpus and controls how it is flattened.
type CorpusConfig struct {
	Path          string `yaml:"path"`
	ForumBaseURL  string `yaml:"forum_base_url"`
	ItemTextLimit int    `yaml:"item_text_limit"`
}

// EmbeddingConfig selects and tunes the embedding provider.
// Provider is one of "openai", "onnx" or "mock".
type EmbeddingConfig struct {
	Provider          string        `yaml:"provider"`
	BaseURL           string        `yaml:"base_url"`
	APIKeyEnv         string        `yaml:"api_key_env"`
	Model             string        `yaml:"model"`
	Dimensions        int           `yaml:"dimensions"`
	Timeout           time.Duration `yaml:"timeout"`
	CacheSize         int           `yaml:"cache_size"`
	Concurrency       int           `yaml:"concurrency"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	ModelPath         string        `yaml:"model_path"`
	MaxTokens         int           `yaml:"max_tokens"`
}

// CompletionConfig holds chat-completion provider settings.
type CompletionConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKeyEnv    string        `yaml:"api_key_env"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout"`
	JSONMode     bool          `yaml:"json_mode"`
	SystemPrompt string        `yaml:"system_prompt"`
}

// AnswerConfig holds retrieval and prompt-building settings.
type AnswerConfig struct {
	TopK             int    `yaml:"top_k"`
	ContextBudget    int    `yaml:"context_budget"`
	LinkPreviewChars int    `yaml:"link_preview_chars"`
	Persona          string `yaml:"persona"`
}

// APIKey returns the embedding provider token from the configured environment variable.
func (e *EmbeddingConfig) APIKey() string {
	return os.Getenv(e.APIKeyEnv)
}

// APIKey returns the completion provider token from the configured environment variable.
func (c *CompletionConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// Load reads and parses the config file at path, applies defaults, and expands paths.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Corpus.Path = expandPath(cfg.Corpus.Path, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}

	return &cfg, nil
}

// Validate rejects settings that cannot be served.
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderONNX, ProviderMock:
	default:
		return fmt.Errorf("invalid config: unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Embedding.Provider == ProviderONNX && c.Embedding.ModelPath == "" {
		return fmt.Errorf("invalid config: embedding.model_path is required for the onnx provider")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d out of range", c.Server.Port)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "~/" are relative to the
// home directory; every other relative path is relative to configDir.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
		return path
	}
	return filepath.Join(configDir, path)
}
