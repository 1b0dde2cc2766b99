// Package vector keeps chunk texts and their embeddings in memory as two parallel slices.
package vector

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/search/result"
	vecmath "github.com/kailas-cloud/docchat/internal/domain/vector"
)

// Store holds the index of the single loaded document.
// texts[i] was embedded as vectors[i]; both slices are swapped together under the lock.
type Store struct {
	mu      sync.RWMutex
	texts   []string
	vectors [][]float32
	dim     int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps the whole index for texts and vectors.
// On error the previous content stays untouched.
func (s *Store) Replace(texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("replace index: %d texts but %d vectors", len(texts), len(vectors))
	}
	dim, err := vecmath.Dimensions(vectors)
	if err != nil {
		return fmt.Errorf("replace index: %w", err)
	}

	newTexts := slices.Clone(texts)
	newVectors := make([][]float32, len(vectors))
	for i, v := range vectors {
		newVectors[i] = slices.Clone(v)
	}

	s.mu.Lock()
	s.texts, s.vectors, s.dim = newTexts, newVectors, dim
	s.mu.Unlock()
	return nil
}

// SearchKNN ranks every stored chunk by cosine similarity to query and returns the best k.
// Equal scores keep document order. Returns domain.ErrIndexNotReady when empty.
func (s *Store) SearchKNN(query []float32, k int) ([]result.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.texts) == 0 {
		return nil, domain.ErrIndexNotReady
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrVectorDimMismatch, len(query), s.dim)
	}
	if k <= 0 {
		return []result.Result{}, nil
	}

	ranked := make([]result.Result, len(s.texts))
	for i, v := range s.vectors {
		ranked[i] = result.New(s.texts[i], vecmath.Cosine(query, v), i)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// Count returns the number of indexed chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.texts)
}

// Dimensions returns the vector size of the index, 0 when empty.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// Texts returns a copy of the indexed chunk texts in document order.
func (s *Store) Texts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.texts)
}

// Clear empties the index.
func (s *Store) Clear() {
	s.mu.Lock()
	s.texts, s.vectors, s.dim = nil, nil, 0
	s.mu.Unlock()
}
