package ollama

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// Embedder maps the embedding intent onto langchaingo: documents go through
// EmbedDocuments, questions through EmbedQuery.
type Embedder struct {
	impl      embeddings.Embedder
	intent    domain.Intent
	model     string
	provider  string
	serverURL string
	http      *http.Client
	logger    *zap.Logger
}

// NewEmbedder creates an Ollama embedder bound to one intent.
func NewEmbedder(cfg *Config, intent domain.Intent) (*Embedder, error) {
	llm, err := newLLM(cfg)
	if err != nil {
		return nil, err
	}
	impl, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("init ollama embedder: %w", err)
	}
	return Wrap(cfg, intent, impl), nil
}

// Wrap builds an Embedder around an existing langchaingo embedder.
func Wrap(cfg *Config, intent domain.Intent, impl embeddings.Embedder) *Embedder {
	provider := cfg.Provider
	if provider == "" {
		provider = "ollama"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		impl:      impl,
		intent:    intent,
		model:     cfg.Model,
		provider:  provider,
		serverURL: cfg.serverURL(),
		http:      &http.Client{Timeout: 5 * time.Second},
		logger:    logger,
	}
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	vec, err := e.embed(ctx, text)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, "api_error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("ollama %s embedding: %w: %w", e.intent, domain.ErrEmbeddingProviderError, err)
	}
	if len(vec) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, e.model).Observe(duration.Seconds())

	// Ollama reports no token usage for embeddings.
	return domain.EmbeddingResult{Embedding: vec}, nil
}

func (e *Embedder) embed(ctx context.Context, text string) ([]float32, error) {
	if e.intent == domain.IntentQuery {
		return e.impl.EmbedQuery(ctx, text)
	}
	vecs, err := e.impl.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, nil
	}
	return vecs[0], nil
}

// HealthCheck verifies that the Ollama server answers.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	return healthCheck(ctx, e.http, e.serverURL)
}
