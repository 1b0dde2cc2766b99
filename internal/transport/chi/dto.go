package chi

import (
	"time"

	"github.com/kailas-cloud/docchat/internal/domain/conversation"
	"github.com/kailas-cloud/docchat/internal/usecase/answer"
	sessionuc "github.com/kailas-cloud/docchat/internal/usecase/session"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodePayloadTooLarge   ErrorCode = "payload_too_large"
	CodeUnsupportedType   ErrorCode = "unsupported_type"
	CodeNoTextFound       ErrorCode = "no_text_found"
	CodeExtractionFailed  ErrorCode = "extraction_failed"
	CodeNoChunks          ErrorCode = "no_chunks"
	CodeIndexNotReady     ErrorCode = "index_not_ready"
	CodeEmbeddingProvider ErrorCode = "embedding_provider_error"
	CodeGenerationFailure ErrorCode = "generation_failure"
	CodeVectorDimMismatch ErrorCode = "vector_dim_mismatch"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// TextDocumentRequest is the JSON form of POST /documents.
type TextDocumentRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// DocumentResponse describes the loaded document.
type DocumentResponse struct {
	Loaded     bool       `json:"loaded"`
	Name       string     `json:"name,omitempty"`
	Type       string     `json:"type,omitempty"`
	Chunks     int        `json:"chunks"`
	Characters int        `json:"characters"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
	TopK     *int   `json:"top_k,omitempty"`
}

// AskResponse is the answer with the chunks it was grounded on.
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Outcome string   `json:"outcome"`
}

// HistoryResponse lists the conversation so far.
type HistoryResponse struct {
	Messages []conversation.Message `json:"messages"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func statusToDTO(st sessionuc.Status) DocumentResponse {
	resp := DocumentResponse{
		Loaded:     st.Loaded,
		Name:       st.Name,
		Type:       string(st.Type),
		Chunks:     st.Chunks,
		Characters: st.Characters,
	}
	if !st.LoadedAt.IsZero() {
		t := st.LoadedAt.UTC()
		resp.LoadedAt = &t
	}
	return resp
}

func answerToDTO(r answer.Response) AskResponse {
	sources := r.Sources
	if sources == nil {
		sources = []string{}
	}
	return AskResponse{Answer: r.Answer, Sources: sources, Outcome: string(r.Outcome)}
}
