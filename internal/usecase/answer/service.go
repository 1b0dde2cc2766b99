// Package answer assembles retrieved chunks into a grounded prompt and generates the reply.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// Fixed replies for questions the document cannot answer.
const (
	NoResultsMessage     = "I couldn't find any relevant information in the document to answer your question."
	LowConfidenceMessage = "I couldn't find sufficiently relevant information in the document to answer your question confidently."
)

// Outcome classifies how a question was handled.
type Outcome string

// Outcomes.
const (
	OutcomeAnswered      Outcome = "answered"
	OutcomeNoResults     Outcome = "no_results"
	OutcomeLowConfidence Outcome = "low_confidence"
)

// Response is the generated answer and the chunks it was grounded on, in rank order.
type Response struct {
	Answer  string
	Sources []string
	Outcome Outcome
}

// Service answers questions from the indexed document.
type Service struct {
	retriever Retriever
	generator Generator
	retrieval domain.RetrievalConfig
	gen       domain.GenerationConfig
}

// New creates an answer service.
func New(
	retriever Retriever, generator Generator,
	retrieval domain.RetrievalConfig, gen domain.GenerationConfig,
) *Service {
	if gen.SystemPrompt == "" {
		gen.SystemPrompt = domain.DefaultSystemPrompt
	}
	return &Service{retriever: retriever, generator: generator, retrieval: retrieval, gen: gen}
}

// GenerateResponse retrieves up to topK chunks, drops those at or below the relevance floor
// and asks the generator to answer from the rest. topK <= 0 uses the configured default.
func (s *Service) GenerateResponse(ctx context.Context, query string, topK int) (Response, error) {
	if topK <= 0 {
		topK = s.retrieval.TopK
	}

	results, err := s.retriever.SimilaritySearch(ctx, query, topK)
	if err != nil {
		return Response{}, fmt.Errorf("similarity search: %w", err)
	}

	if len(results) == 0 {
		metrics.AnswersTotal.WithLabelValues(string(OutcomeNoResults)).Inc()
		return Response{Answer: NoResultsMessage, Sources: []string{}, Outcome: OutcomeNoResults}, nil
	}
	metrics.RetrievalTopScore.Observe(results[0].Score())

	relevant := result.Above(results, s.retrieval.RelevanceFloor)
	if len(relevant) == 0 {
		metrics.AnswersTotal.WithLabelValues(string(OutcomeLowConfidence)).Inc()
		return Response{Answer: LowConfidenceMessage, Sources: []string{}, Outcome: OutcomeLowConfidence}, nil
	}

	gen, err := s.generator.Generate(ctx, domain.GenerationRequest{
		SystemPrompt: s.gen.SystemPrompt,
		UserPrompt:   BuildPrompt(BuildContext(relevant), query),
		Temperature:  s.gen.Temperature,
		MaxTokens:    s.gen.MaxTokens,
	})
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}

	metrics.AnswersTotal.WithLabelValues(string(OutcomeAnswered)).Inc()
	return Response{Answer: gen.Text, Sources: result.Texts(relevant), Outcome: OutcomeAnswered}, nil
}

// BuildContext labels each chunk "Context N: ..." in rank order, separated by blank lines.
func BuildContext(results []result.Result) string {
	parts := make([]string, len(results))
	for i := range results {
		parts[i] = fmt.Sprintf("Context %d: %s", i+1, results[i].Text())
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt renders the user turn sent to the generator.
func BuildPrompt(contextBlock, question string) string {
	return "Context from the document:\n" + contextBlock +
		"\n\nUser Question: " + question +
		"\n\nPlease answer the user's question based on the provided context. " +
		"If the context doesn't contain relevant information, please say so clearly."
}
