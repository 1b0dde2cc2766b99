package docchat

import "github.com/kailas-cloud/docchat/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrExtraction             = domain.ErrExtraction
	ErrUnsupportedType        = domain.ErrUnsupportedType
	ErrNoTextFound            = domain.ErrNoTextFound
	ErrNoChunks               = domain.ErrNoChunks
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrIndexNotReady          = domain.ErrIndexNotReady
	ErrGenerationFailure      = domain.ErrGenerationFailure
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrInvalidInput           = domain.ErrInvalidInput
)
