package docchat

import (
	"context"
	"strings"
	"unicode"
)

// --- Embedder mock ---

// letterEmbedder embeds text as 26 letter frequencies. Shared letters give high cosine similarity.
type letterEmbedder struct {
	calls     int
	err       error
	healthErr error
}

func (e *letterEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return EmbeddingResult{}, e.err
	}
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	vec[0] += 0.5 // never a zero vector
	return EmbeddingResult{Embedding: vec, PromptTokens: len(text) / 4, TotalTokens: len(text) / 4}, nil
}

func (e *letterEmbedder) HealthCheck(context.Context) error { return e.healthErr }

// plainEmbedder has no health check.
type plainEmbedder struct {
	inner letterEmbedder
}

func (e *plainEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return e.inner.Embed(ctx, text)
}

// --- Generator mock ---

type mockGenerator struct {
	fn       func(ctx context.Context, req GenerationRequest) (GenerationResult, error)
	requests []GenerationRequest
}

func (g *mockGenerator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	g.requests = append(g.requests, req)
	if g.fn != nil {
		return g.fn(ctx, req)
	}
	return GenerationResult{Text: "The answer.", PromptTokens: 10, CompletionTokens: 3}, nil
}

func sampleText() string {
	var b strings.Builder
	words := []string{"Revenue", "grew", "in", "the", "third", "quarter", "because", "of", "strong", "demand."}
	for b.Len() < 2500 {
		for _, w := range words {
			b.WriteString(w)
			b.WriteRune(' ')
		}
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}
