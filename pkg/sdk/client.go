package docchat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/chunk"
	"github.com/kailas-cloud/docchat/internal/extract"
	"github.com/kailas-cloud/docchat/internal/repository/vector"
	answeruc "github.com/kailas-cloud/docchat/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	indexuc "github.com/kailas-cloud/docchat/internal/usecase/index"
	sessionuc "github.com/kailas-cloud/docchat/internal/usecase/session"
)

// Internal interface for substitution in tests.
type sessionUseCase interface {
	ProcessFile(ctx context.Context, name, declared string, data []byte) (sessionuc.Status, error)
	ProcessDocument(ctx context.Context, name, text string) (sessionuc.Status, error)
	Ask(ctx context.Context, question string, topK int) (answeruc.Response, error)
	DocumentLoaded() bool
	Reset()
	Status() sessionuc.Status
}

// Client is the docchat SDK entry point. It is safe for concurrent use.
type Client struct {
	sessionSvc sessionUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client. WithEmbedders and WithGenerator are required.
func New(opts ...Option) (*Client, error) {
	defaults := chunk.DefaultSettings()
	retrieval := domain.DefaultRetrievalConfig()
	cfg := &clientConfig{
		chunkSize:      defaults.Size,
		chunkOverlap:   defaults.Overlap,
		chunkMinLength: defaults.MinLength,
		topK:           retrieval.TopK,
		relevanceFloor: retrieval.RelevanceFloor,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.docEmbedder == nil || cfg.queryEmbedder == nil {
		return nil, errors.New("docchat: embedders required (use WithEmbedders)")
	}
	if cfg.generator == nil {
		return nil, errors.New("docchat: generator required (use WithGenerator)")
	}
	if cfg.topK <= 0 {
		return nil, fmt.Errorf("docchat: topK must be greater than 0, got %d", cfg.topK)
	}

	splitter, err := chunk.NewSplitter(chunk.Settings{
		Size:      cfg.chunkSize,
		Overlap:   cfg.chunkOverlap,
		MinLength: cfg.chunkMinLength,
	})
	if err != nil {
		return nil, fmt.Errorf("docchat: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cfg, splitter, obs), nil
}

func wireClient(cfg *clientConfig, splitter *chunk.Splitter, obs *observer) *Client {
	gen := domain.DefaultGenerationConfig()
	if cfg.systemPrompt != "" {
		gen.SystemPrompt = cfg.systemPrompt
	}
	if cfg.temperature > 0 {
		gen.Temperature = cfg.temperature
	}
	if cfg.maxTokens > 0 {
		gen.MaxTokens = cfg.maxTokens
	}
	retrieval := domain.RetrievalConfig{TopK: cfg.topK, RelevanceFloor: cfg.relevanceFloor}

	docEmb := &embedderAdapter{inner: cfg.docEmbedder}
	queryEmb := &embedderAdapter{inner: cfg.queryEmbedder}
	generator := &generatorAdapter{inner: cfg.generator}

	// Internal layers log through zap; the SDK reports through its own observer.
	nop := zap.NewNop()
	index := indexuc.New(vector.NewStore(), docEmb, queryEmb)
	answers := answeruc.New(index, generator, retrieval, gen)
	session := sessionuc.New(extract.New(nop), splitter, index, answers, retrieval.TopK, nop)

	// Pass nil interfaces (not typed nil pointers!) for providers without health checks.
	var embCheck, genCheck healthuc.ProviderChecker
	if hc, ok := cfg.queryEmbedder.(HealthChecker); ok {
		embCheck = hc
	}
	if hc, ok := cfg.generator.(HealthChecker); ok {
		genCheck = hc
	}

	return &Client{
		sessionSvc: session,
		healthSvc:  healthuc.New(nil, embCheck, genCheck),
		obs:        obs,
	}
}

// ProcessDocument loads plain text as the current document, replacing any previous one.
// On failure the previous document stays loaded.
func (c *Client) ProcessDocument(ctx context.Context, name, text string) (st Status, err error) {
	start := time.Now()
	defer func() { c.obs.observe("process_document", start, err, "name", name, "chunks", st.Chunks) }()

	s, err := c.sessionSvc.ProcessDocument(ctx, name, text)
	if err != nil {
		return Status{}, fmt.Errorf("process document: %w", err)
	}
	return statusFromDomain(s), nil
}

// ProcessFile extracts text from a file and loads it as the current document.
// docType may be empty: the type is then taken from the name's extension or sniffed from data.
func (c *Client) ProcessFile(ctx context.Context, name string, data []byte, docType DocumentType) (st Status, err error) {
	start := time.Now()
	defer func() { c.obs.observe("process_file", start, err, "name", name, "chunks", st.Chunks) }()

	s, err := c.sessionSvc.ProcessFile(ctx, name, string(docType), data)
	if err != nil {
		return Status{}, fmt.Errorf("process file: %w", err)
	}
	return statusFromDomain(s), nil
}

// Ask answers a question from the loaded document. topK <= 0 uses the configured default.
// Returns ErrIndexNotReady when no document is loaded.
func (c *Client) Ask(ctx context.Context, question string, topK int) (ans Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err, "outcome", string(ans.Outcome)) }()

	resp, err := c.sessionSvc.Ask(ctx, question, topK)
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	ans = Answer{Text: resp.Answer, Sources: resp.Sources, Outcome: Outcome(resp.Outcome)}
	if ans.Sources == nil {
		ans.Sources = []string{}
	}
	c.obs.answered(ans.Outcome)
	return ans, nil
}

// DocumentLoaded reports whether a document is ready for questions.
func (c *Client) DocumentLoaded() bool {
	return c.sessionSvc.DocumentLoaded()
}

// Reset drops the loaded document.
func (c *Client) Reset() {
	start := time.Now()
	c.sessionSvc.Reset()
	c.obs.observe("reset", start, nil)
}

// Status describes the loaded document.
func (c *Client) Status() Status {
	return statusFromDomain(c.sessionSvc.Status())
}

func statusFromDomain(s sessionuc.Status) Status {
	return Status{
		Loaded:     s.Loaded,
		Name:       s.Name,
		Type:       DocumentType(s.Type),
		Chunks:     s.Chunks,
		Characters: s.Characters,
		LoadedAt:   s.LoadedAt,
	}
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// generatorAdapter wraps public Generator to satisfy internal domain.Generator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	r, err := a.inner.Generate(ctx, GenerationRequest{
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
	})
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate: %w", err)
	}
	return domain.GenerationResult{
		Text:             r.Text,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
	}, nil
}
