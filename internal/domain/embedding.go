package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
// The intent (document or query) is bound when the embedder is built, not per call.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Intent tells the provider what the embedded text will be used for.
type Intent string

const (
	// IntentDocument marks chunk texts stored in the index.
	IntentDocument Intent = "document"
	// IntentQuery marks user questions compared against stored chunks.
	IntentQuery Intent = "query"
)

// ParseIntent validates an intent name.
func ParseIntent(s string) (Intent, error) {
	switch Intent(s) {
	case IntentDocument, IntentQuery:
		return Intent(s), nil
	default:
		return "", fmt.Errorf("%w: unknown embedding intent %q", ErrInvalidInput, s)
	}
}

// InstructionEmbedder is a domain decorator that prepends instruction text before embedding.
// OpenAI-compatible providers have no task type parameter, so intent travels as a prefix.
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
}

// NewInstructionEmbedder creates a decorator that prepends instruction text.
func NewInstructionEmbedder(inner Embedder, instruction string) *InstructionEmbedder {
	return &InstructionEmbedder{inner: inner, instruction: instruction}
}

// Embed prepends instruction and delegates to inner embedder.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return result, nil
}

// EmbedderFunc adapts a plain function to Embedder.
type EmbedderFunc func(ctx context.Context, text string) (EmbeddingResult, error)

// Embed calls f.
func (f EmbedderFunc) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return f(ctx, text)
}
