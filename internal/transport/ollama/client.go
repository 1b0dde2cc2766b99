// Package ollama talks to a local Ollama server through langchaingo.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// DefaultServerURL is used when no base URL is configured.
const DefaultServerURL = "http://localhost:11434"

// Config holds the Ollama provider settings.
type Config struct {
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

func (c *Config) serverURL() string {
	if c.BaseURL == "" {
		return DefaultServerURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func newLLM(cfg *Config) (*ollama.LLM, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.serverURL()),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init ollama client: %w", err)
	}
	return llm, nil
}

// healthCheck pings the server version endpoint; langchaingo exposes no listing call.
func healthCheck(ctx context.Context, client *http.Client, serverURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/api/version", http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health: unexpected status %d", resp.StatusCode)
	}
	return nil
}
