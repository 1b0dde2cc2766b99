package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestGenerator(url string) *Generator {
	return NewGenerator(&Config{
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "deepseek-chat",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestGenerator_Generate(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  The answer.  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 8, "total_tokens": 128}
		}`))
	}))
	defer server.Close()

	res, err := newTestGenerator(server.URL).Generate(context.Background(), domain.GenerationRequest{
		SystemPrompt: "system",
		UserPrompt:   "user",
		Temperature:  0.3,
		MaxTokens:    1000,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if res.Text != "The answer." {
		t.Errorf("Text = %q", res.Text)
	}
	if res.PromptTokens != 120 || res.CompletionTokens != 8 {
		t.Errorf("usage = %d/%d", res.PromptTokens, res.CompletionTokens)
	}
	if got.Model != "deepseek-chat" || got.MaxTokens != 1000 || got.Temperature != 0.3 {
		t.Errorf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestGenerator_NoSystemPrompt(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	if _, err := newTestGenerator(server.URL).Generate(context.Background(), domain.GenerationRequest{
		UserPrompt: "hi",
	}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestGenerator_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), domain.GenerationRequest{UserPrompt: "q"})
	if !errors.Is(err, domain.ErrGenerationFailure) {
		t.Fatalf("expected ErrGenerationFailure, got %v", err)
	}
}

func TestGenerator_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL).Generate(context.Background(), domain.GenerationRequest{UserPrompt: "q"})
	if !errors.Is(err, domain.ErrGenerationFailure) {
		t.Fatalf("expected ErrGenerationFailure, got %v", err)
	}
}

func TestGenerator_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator(server.URL).Generate(ctx, domain.GenerationRequest{UserPrompt: "q"})
	if !errors.Is(err, domain.ErrGenerationFailure) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected generation failure wrapping context.Canceled, got %v", err)
	}
}
