package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Complete(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"answer\":\"Use Docker\"}"}}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(OpenAIConfig{APIKey: "tok", BaseURL: srv.URL})
	require.NoError(t, err)
	out, err := c.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "q"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"Use Docker"}`, out)
	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Nil(t, got.ResponseFormat)
}

func TestOpenAIClient_jsonMode(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(OpenAIConfig{APIKey: "tok", BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), Request{JSONMode: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "json_object"}, raw["response_format"])
	assert.Equal(t, "m", c.Model())
}

func TestOpenAIClient_errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"http status", http.StatusBadGateway, "upstream down", "status 502"},
		{"api error", http.StatusOK, `{"error":{"message":"model not found"}}`, "model not found"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"not json", http.StatusOK, `oops`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			c, err := NewOpenAIClient(OpenAIConfig{APIKey: "tok", BaseURL: srv.URL})
			require.NoError(t, err)
			_, err = c.Complete(context.Background(), Request{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOpenAIClient_contextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewOpenAIClient(OpenAIConfig{APIKey: "tok", BaseURL: srv.URL})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Complete(ctx, Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewOpenAIClient_requiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{})
	assert.Error(t, err)
}

func TestCompleterFunc(t *testing.T) {
	var c Completer = CompleterFunc(func(ctx context.Context, r Request) (string, error) {
		return r.Messages[0].Content, nil
	})
	out, err := c.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "echo"}}})
	require.NoError(t, err)
	assert.Equal(t, "echo", out)
}
