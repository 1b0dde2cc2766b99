package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/config"
	"github.com/kailas-cloud/docchat/internal/db"
	dbMemory "github.com/kailas-cloud/docchat/internal/db/memory"
	dbRedis "github.com/kailas-cloud/docchat/internal/db/redis"
	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/chunk"
	"github.com/kailas-cloud/docchat/internal/extract"
	"github.com/kailas-cloud/docchat/internal/metrics"
	"github.com/kailas-cloud/docchat/internal/repository/embcache"
	"github.com/kailas-cloud/docchat/internal/repository/vector"
	ollamaTransport "github.com/kailas-cloud/docchat/internal/transport/ollama"
	openaiTransport "github.com/kailas-cloud/docchat/internal/transport/openai"
	answeruc "github.com/kailas-cloud/docchat/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/docchat/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	indexuc "github.com/kailas-cloud/docchat/internal/usecase/index"
	sessionuc "github.com/kailas-cloud/docchat/internal/usecase/session"
)

// app is the assembled object graph shared by the serve and ask commands.
type app struct {
	session *sessionuc.Service
	health  *healthuc.Service
	store   db.Store
}

// Close releases the cache connection, if any.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildApp is the composition root: cache -> embedders -> index -> answers -> session.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.Register()

	store, err := buildStore(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	docEmbedder, err := buildEmbedder(cfg.Embedding, cfg.Cache, domain.IntentDocument, store, logger)
	if err != nil {
		closeStore(store)
		return nil, err
	}
	queryEmbedder, err := buildEmbedder(cfg.Embedding, cfg.Cache, domain.IntentQuery, store, logger)
	if err != nil {
		closeStore(store)
		return nil, err
	}
	generator, err := buildGenerator(cfg.Generation, logger)
	if err != nil {
		closeStore(store)
		return nil, err
	}
	logger.Info("Providers created",
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("generation_provider", cfg.Generation.Provider),
		zap.String("generation_model", cfg.Generation.Model),
	)

	splitter, err := chunk.NewSplitter(chunk.Settings{
		Size:      cfg.Chunking.Size,
		Overlap:   *cfg.Chunking.Overlap,
		MinLength: *cfg.Chunking.MinLength,
	})
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("chunking: %w", err)
	}

	retrieval := domain.RetrievalConfig{
		TopK:           cfg.Retrieval.TopK,
		RelevanceFloor: *cfg.Retrieval.RelevanceFloor,
	}
	generation := domain.GenerationConfig{
		SystemPrompt: cfg.Generation.SystemPrompt,
		Temperature:  cfg.Generation.Temperature,
		MaxTokens:    cfg.Generation.MaxTokens,
	}

	index := indexuc.New(vector.NewStore(), docEmbedder, queryEmbedder)
	answers := answeruc.New(index, generator, retrieval, generation)
	session := sessionuc.New(extract.New(logger), splitter, index, answers, retrieval.TopK, logger)

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	health := healthuc.New(cachePinger, healthChecker(docEmbedder), healthChecker(generator))

	return &app{session: session, health: health, store: store}, nil
}

func closeStore(store db.Store) {
	if store != nil {
		store.Close()
	}
}

// buildStore creates the embedding cache backend. Returns nil for the "none" driver.
func buildStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		store, err = dbMemory.NewStore(cfg.Size)
	case config.CacheRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s cache not ready: %w", cfg.Driver, err)
	}
	logger.Info("Embedding cache ready", zap.String("driver", cfg.Driver))
	return store, nil
}

// buildEmbedder assembles the decorator chain: provider -> cached -> instrumented -> instruction.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	cacheCfg config.CacheConfig,
	intent domain.Intent,
	store db.Store,
	logger *zap.Logger,
) (domain.Embedder, error) {
	var (
		base domain.Embedder
		err  error
	)
	switch cfg.Provider {
	case config.ProviderOllama:
		base, err = ollamaTransport.NewEmbedder(&ollamaTransport.Config{
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Logger:   logger,
		}, intent)
	default:
		base = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Provider,
			Logger:     logger,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%s embedder: %w", cfg.Provider, err)
	}

	embedder := base
	if store != nil {
		namespace := fmt.Sprintf("%s/%s/%d/%s", cfg.Provider, cfg.Model, cfg.Dimensions, intent)
		embedder = embcache.New(base, store, namespace,
			time.Duration(cacheCfg.TTLSec)*time.Second, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, intent, logger)

	// Instruction prefix is outermost so the cache key includes it.
	instruction := cfg.DocumentInstruction
	if intent == domain.IntentQuery {
		instruction = cfg.QueryInstruction
	}
	if instruction != "" {
		return &healthyInstruction{
			InstructionEmbedder: domain.NewInstructionEmbedder(embedder, instruction),
			inner:               embedder,
		}, nil
	}
	return embedder, nil
}

// buildGenerator creates the answer generator for the configured provider.
func buildGenerator(cfg config.GenerationConfig, logger *zap.Logger) (domain.Generator, error) {
	var (
		base domain.Generator
		err  error
	)
	switch cfg.Provider {
	case config.ProviderOllama:
		base, err = ollamaTransport.NewGenerator(&ollamaTransport.Config{
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Logger:   logger,
		})
	default:
		base = openaiTransport.NewGenerator(&openaiTransport.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Logger:   logger,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%s generator: %w", cfg.Provider, err)
	}
	return embeddinguc.NewInstrumentedGenerator(base, cfg.Provider, cfg.Model, logger), nil
}

// healthyInstruction keeps the inner health check reachable through the instruction decorator.
type healthyInstruction struct {
	*domain.InstructionEmbedder
	inner domain.Embedder
}

func (h *healthyInstruction) HealthCheck(ctx context.Context) error {
	if hc, ok := h.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// healthChecker returns v as a health checker, or an untyped nil if it cannot report.
func healthChecker(v any) healthuc.ProviderChecker {
	if hc, ok := v.(healthuc.ProviderChecker); ok {
		return hc
	}
	return nil
}
