// Package llm provides chat-completion providers.
package llm

import "context"

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Request is a single completion call.
type Request struct {
	Messages []Message
	// JSONMode asks the provider to constrain output to a JSON object.
	JSONMode bool
}

// Completer returns the model's reply for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
