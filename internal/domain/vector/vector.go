// Package vector holds similarity math over embedding vectors.
package vector

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Cosine returns dot(a,b) / (|a| * |b|).
// It is 0 when either magnitude is zero and never NaN.
// Callers must pass vectors of equal length; extra components of the longer one are ignored.
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := range n {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Rounding can push |s| slightly past 1.
	return math.Max(-1, math.Min(1, s))
}

// Dimensions returns the shared length of vs, or ErrVectorDimMismatch when lengths differ.
// An empty slice has dimension 0.
func Dimensions(vs [][]float32) (int, error) {
	if len(vs) == 0 {
		return 0, nil
	}
	dim := len(vs[0])
	for i, v := range vs[1:] {
		if len(v) != dim {
			return 0, fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
				domain.ErrVectorDimMismatch, i+1, len(v), dim)
		}
	}
	return dim, nil
}
