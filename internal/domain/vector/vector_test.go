package vector

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/docchat/internal/domain"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"zero left", []float32{0, 0, 0}, []float32{1, 2, 3}, 0},
		{"zero right", []float32{1, 2, 3}, []float32{0, 0, 0}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("Cosine() is NaN")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosine_ZeroVectorIsExactlyZero(t *testing.T) {
	got := Cosine([]float32{0, 0, 0, 0}, []float32{0.3, -0.7, 0.1, 0.9})
	if got != 0.0 {
		t.Errorf("Cosine(zero, v) = %v, want exactly 0", got)
	}
}

func TestCosine_StaysInRange(t *testing.T) {
	v := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}
	got := Cosine(v, v)
	if got > 1 || got < 0.999999 {
		t.Errorf("self-similarity = %v, want ~1 and <= 1", got)
	}
}

func TestDimensions(t *testing.T) {
	dim, err := Dimensions([][]float32{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dim != 2 {
		t.Errorf("Dimensions() = %d, want 2", dim)
	}

	dim, err = Dimensions(nil)
	if err != nil || dim != 0 {
		t.Errorf("Dimensions(nil) = %d, %v", dim, err)
	}

	_, err = Dimensions([][]float32{{1, 2}, {3}})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}
