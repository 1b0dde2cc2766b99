package docchat

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	docEmbedder   Embedder
	queryEmbedder Embedder
	generator     Generator

	chunkSize      int
	chunkOverlap   int
	chunkMinLength int

	topK           int
	relevanceFloor float64

	systemPrompt string
	temperature  float32
	maxTokens    int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithEmbedders sets the embedding providers for document chunks and for questions.
// Pass the same embedder twice when the provider has no separate query mode.
// Required.
func WithEmbedders(document, query Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.docEmbedder = document
		c.queryEmbedder = query
	})
}

// WithGenerator sets the answer generator. Required.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithChunking sets chunk size, overlap and minimum chunk length in characters.
// Defaults: 1000, 200, 50.
func WithChunking(size, overlap, minLength int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkSize = size
		c.chunkOverlap = overlap
		c.chunkMinLength = minLength
	})
}

// WithRetrieval sets how many chunks are retrieved per question and the
// similarity a chunk must exceed to be used as context.
// Defaults: 3, 0.1.
func WithRetrieval(topK int, relevanceFloor float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = topK
		c.relevanceFloor = relevanceFloor
	})
}

// WithGeneration overrides the system prompt, temperature and token limit sent to the generator.
// Zero values keep the defaults.
func WithGeneration(systemPrompt string, temperature float32, maxTokens int) Option {
	return optionFunc(func(c *clientConfig) {
		c.systemPrompt = systemPrompt
		c.temperature = temperature
		c.maxTokens = maxTokens
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
