// Package index embeds document chunks and answers similarity queries over them.
package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
	"github.com/kailas-cloud/docchat/internal/metrics"
)

// Service owns the single-document vector index.
type Service struct {
	repo     Repository
	docEmbed Embedder
	qryEmbed Embedder
}

// New creates an index service. docEmbed vectorizes chunks, qryEmbed vectorizes questions.
func New(repo Repository, docEmbed, qryEmbed Embedder) *Service {
	return &Service{repo: repo, docEmbed: docEmbed, qryEmbed: qryEmbed}
}

// AddDocuments embeds every chunk in order and replaces the index with the result.
// Nothing is committed unless all chunks were embedded.
func (s *Service) AddDocuments(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return domain.ErrNoChunks
	}

	vectors := make([][]float32, len(chunks))
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("embed chunk %d: %w: %w", i, domain.ErrEmbeddingProviderError, err)
		}
		res, err := s.docEmbed.Embed(ctx, c)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w: %w", i, domain.ErrEmbeddingProviderError, err)
		}
		vectors[i] = res.Embedding
	}

	if err := s.repo.Replace(chunks, vectors); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	metrics.IndexedChunks.Set(float64(len(chunks)))
	return nil
}

// SimilaritySearch returns up to topK chunks ranked by cosine similarity to query.
func (s *Service) SimilaritySearch(ctx context.Context, query string, topK int) ([]result.Result, error) {
	if s.repo.Count() == 0 {
		return nil, domain.ErrIndexNotReady
	}
	if topK <= 0 {
		return []result.Result{}, nil
	}

	emb, err := s.qryEmbed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %w", domain.ErrEmbeddingProviderError, err)
	}

	results, err := s.repo.SearchKNN(emb.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	return results, nil
}

// Count returns the number of indexed chunks.
func (s *Service) Count() int {
	return s.repo.Count()
}

// Clear empties the index.
func (s *Service) Clear() {
	s.repo.Clear()
	metrics.IndexedChunks.Set(0)
}
