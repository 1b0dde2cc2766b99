package index

import (
	"context"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
)

// Repository defines the storage contract for the in-memory index.
type Repository interface {
	Replace(texts []string, vectors [][]float32) error
	SearchKNN(query []float32, k int) ([]result.Result, error)
	Count() int
	Clear()
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
