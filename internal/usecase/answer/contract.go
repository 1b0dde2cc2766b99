package answer

import (
	"context"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
)

// Retriever ranks indexed chunks against a question.
type Retriever interface {
	SimilaritySearch(ctx context.Context, query string, topK int) ([]result.Result, error)
}

// Generator produces the answer text.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}
