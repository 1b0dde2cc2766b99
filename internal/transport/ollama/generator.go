package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// Generator answers questions with a local chat model.
type Generator struct {
	model     llms.Model
	name      string
	provider  string
	serverURL string
	http      *http.Client
	logger    *zap.Logger
}

// NewGenerator creates an Ollama chat generator.
func NewGenerator(cfg *Config) (*Generator, error) {
	llm, err := newLLM(cfg)
	if err != nil {
		return nil, err
	}
	return WrapModel(cfg, llm), nil
}

// WrapModel builds a Generator around an existing langchaingo model.
func WrapModel(cfg *Config, model llms.Model) *Generator {
	provider := cfg.Provider
	if provider == "" {
		provider = "ollama"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		model:     model,
		name:      cfg.Model,
		provider:  provider,
		serverURL: cfg.serverURL(),
		http:      &http.Client{Timeout: 5 * time.Second},
		logger:    logger,
	}
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.UserPrompt))

	var opts []llms.CallOption
	opts = append(opts, llms.WithTemperature(float64(req.Temperature)))
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, messages, opts...)
	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.name, "error").Inc()
		return domain.GenerationResult{}, fmt.Errorf("ollama generation: %w: %w", domain.ErrGenerationFailure, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.name, "error").Inc()
		return domain.GenerationResult{}, fmt.Errorf("empty completion response: %w", domain.ErrGenerationFailure)
	}

	choice := resp.Choices[0]
	prompt := intFromInfo(choice.GenerationInfo, "PromptTokens")
	completion := intFromInfo(choice.GenerationInfo, "CompletionTokens")

	metrics.GenerationRequestsTotal.WithLabelValues(g.provider, g.name, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.provider, g.name).Observe(duration.Seconds())
	metrics.GenerationTokensTotal.WithLabelValues(g.provider, g.name, "prompt").Add(float64(prompt))
	metrics.GenerationTokensTotal.WithLabelValues(g.provider, g.name, "completion").Add(float64(completion))

	return domain.GenerationResult{
		Text:             strings.TrimSpace(choice.Content),
		PromptTokens:     prompt,
		CompletionTokens: completion,
	}, nil
}

// HealthCheck verifies that the Ollama server answers.
func (g *Generator) HealthCheck(ctx context.Context) error {
	return healthCheck(ctx, g.http, g.serverURL)
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
