package domain

import "errors"

var (
	// ErrExtraction signals that no usable text could be read from an uploaded file.
	ErrExtraction = errors.New("extraction failed")
	// ErrUnsupportedType signals a file type the extractor cannot read.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrNoTextFound signals a readable file without any text content.
	ErrNoTextFound = errors.New("no text found in document")
	// ErrNoChunks signals that chunking left nothing worth indexing.
	ErrNoChunks = errors.New("document produced no chunks")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexNotReady signals a search before any document was indexed.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrGenerationFailure signals an answer generation provider failure.
	ErrGenerationFailure = errors.New("generation failure")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidInput signals a malformed request (empty question, bad parameters).
	ErrInvalidInput = errors.New("invalid input")
)
