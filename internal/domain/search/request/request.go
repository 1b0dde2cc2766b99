package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Question limits.
const (
	// MaxQuestionLength is the maximum allowed question length in characters.
	MaxQuestionLength = 4096
	MaxTopK           = 50
)

// Request is a validated question against the loaded document.
type Request struct {
	question string
	topK     int
}

// New validates and normalizes a question.
// topK == 0 falls back to defaultTopK; negative values are rejected, values above MaxTopK are clamped.
func New(question string, topK, defaultTopK int) (Request, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Request{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return Request{}, fmt.Errorf("%w: question too long (max %d chars)", domain.ErrInvalidInput, MaxQuestionLength)
	}
	if topK < 0 {
		return Request{}, fmt.Errorf("%w: top_k must not be negative, got %d", domain.ErrInvalidInput, topK)
	}
	if topK == 0 {
		topK = defaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return Request{question: question, topK: topK}, nil
}

// Question returns the trimmed question text.
func (r *Request) Question() string { return r.question }

// TopK returns the number of chunks to retrieve.
func (r *Request) TopK() int { return r.topK }
