// Package answer builds grounding prompts, calls the completion model and recovers a
// structured answer from its output.
package answer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/askta/internal/llm"
	"github.com/hyperjump/askta/internal/models"
	"github.com/hyperjump/askta/pkg/utils"
	"go.uber.org/zap"
)

// Defaults applied by NewSynthesizer.
const (
	DefaultContextBudget = 8000
	DefaultTimeout       = 20 * time.Second
	DefaultSystemPrompt  = "You are a helpful TA for TDS."
	DefaultPersona       = "You are a virtual Teaching Assistant for the course. " +
		"Answer the student question based on the provided context from course content and forum posts. " +
		"Include relevant forum links if applicable."
)

// Synthesizer produces an answer for a question from retrieved matches.
type Synthesizer struct {
	completer     llm.Completer
	persona       string
	systemPrompt  string
	contextBudget int
	timeout       time.Duration
	jsonMode      bool
	logger        *zap.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithPersona sets the instruction that opens the prompt.
func WithPersona(persona string) Option {
	return func(s *Synthesizer) {
		if persona != "" {
			s.persona = persona
		}
	}
}

// WithSystemPrompt sets the system message.
func WithSystemPrompt(prompt string) Option {
	return func(s *Synthesizer) {
		if prompt != "" {
			s.systemPrompt = prompt
		}
	}
}

// WithContextBudget sets the maximum number of context characters in the prompt.
func WithContextBudget(chars int) Option {
	return func(s *Synthesizer) {
		if chars > 0 {
			s.contextBudget = chars
		}
	}
}

// WithTimeout bounds each completion call.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithJSONMode asks the provider for a JSON object response.
func WithJSONMode(on bool) Option {
	return func(s *Synthesizer) {
		s.jsonMode = on
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Synthesizer) {
		s.logger = utils.OrNop(logger)
	}
}

// NewSynthesizer returns a Synthesizer that calls completer.
func NewSynthesizer(completer llm.Completer, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		completer:     completer,
		persona:       DefaultPersona,
		systemPrompt:  DefaultSystemPrompt,
		contextBudget: DefaultContextBudget,
		timeout:       DefaultTimeout,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize asks the model to answer question from matches and recovers the result.
// links are the derived links; they take precedence over any the model proposes.
// The completion is not cancelled when ctx is, only when the synthesizer timeout expires.
// There is no retry: a failed or timed out call returns an error wrapping models.ErrCompletion.
func (s *Synthesizer) Synthesize(ctx context.Context, question, media string, matches []models.RankedMatch, links []models.Link) (*models.QueryResult, error) {
	prompt := BuildPrompt(s.persona, question, media, matches, s.contextBudget)

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.completer.Complete(cctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: s.systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		JSONMode: s.jsonMode,
	})
	if err != nil {
		if ctxErr := cctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w (%w)", err, ctxErr)
		}
		s.logger.Error("completion failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", models.ErrCompletion, err)
	}
	s.logger.Debug("completion received",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("reply_chars", len(raw)))
	return Recover(raw, links), nil
}
