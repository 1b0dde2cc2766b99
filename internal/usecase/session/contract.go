package session

import (
	"context"

	"github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/usecase/answer"
)

// Splitter cuts document text into chunks.
type Splitter interface {
	Split(text string) []string
}

// Indexer holds the embedded chunks of the loaded document.
type Indexer interface {
	AddDocuments(ctx context.Context, chunks []string) error
	Count() int
	Clear()
}

// Answerer answers questions from the index.
type Answerer interface {
	GenerateResponse(ctx context.Context, query string, topK int) (answer.Response, error)
}

// Extractor turns file bytes into text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, t document.Type) (string, error)
}
