package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/conversation"
	"github.com/kailas-cloud/docchat/internal/logger"
	"github.com/kailas-cloud/docchat/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	sessionuc "github.com/kailas-cloud/docchat/internal/usecase/session"
)

// multipartMemory is kept in memory before spilling uploads to temp files.
const multipartMemory = 8 << 20

// Sessions is the document Q&A workflow served over HTTP.
type Sessions interface {
	ProcessFile(ctx context.Context, name, declared string, data []byte) (sessionuc.Status, error)
	ProcessDocument(ctx context.Context, name, text string) (sessionuc.Status, error)
	Ask(ctx context.Context, question string, topK int) (answer.Response, error)
	Reset()
	Status() sessionuc.Status
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the document Q&A API.
type Server struct {
	sessions       Sessions
	history        *conversation.History
	health         HealthChecker
	logger         *zap.Logger
	maxUploadBytes int64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. The conversation history is owned by the server
// and cleared whenever a new document is loaded.
func NewServer(
	sessions Sessions,
	history *conversation.History,
	health HealthChecker,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Server {
	if history == nil {
		history = conversation.NewHistory()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sessions:       sessions,
		history:        history,
		health:         health,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
	s.errorHandlers = []errorHandler{
		invalidInputHandler,
		sentinelHandler(domain.ErrUnsupportedType, http.StatusUnprocessableEntity, CodeUnsupportedType),
		sentinelHandler(domain.ErrNoTextFound, http.StatusUnprocessableEntity, CodeNoTextFound),
		sentinelHandler(domain.ErrExtraction, http.StatusUnprocessableEntity, CodeExtractionFailed),
		sentinelHandler(domain.ErrNoChunks, http.StatusUnprocessableEntity, CodeNoChunks),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusConflict, CodeIndexNotReady),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProvider),
		sentinelHandler(domain.ErrGenerationFailure, http.StatusBadGateway, CodeGenerationFailure),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadGateway, CodeVectorDimMismatch),
	}
	return s
}

// UploadDocument handles POST /documents.
// Accepts multipart/form-data with a "file" part (optional "type" field) or a JSON text body.
func (s *Server) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	var (
		st  sessionuc.Status
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		st, err = s.uploadFile(r)
	} else {
		var req TextDocumentRequest
		if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.handleBodyError(w, err)
			return
		}
		st, err = s.sessions.ProcessDocument(r.Context(), req.Name, req.Text)
	}
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	s.history.Clear()
	writeJSON(w, http.StatusCreated, statusToDTO(st))
}

func (s *Server) uploadFile(r *http.Request) (sessionuc.Status, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return sessionuc.Status{}, bodyError(err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return sessionuc.Status{}, fmt.Errorf("%w: multipart field \"file\" is required", domain.ErrInvalidInput)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return sessionuc.Status{}, bodyError(err)
	}

	declared := r.FormValue("type")
	if declared == "" {
		declared = header.Header.Get("Content-Type")
	}
	return s.sessions.ProcessFile(r.Context(), header.Filename, declared, data)
}

// GetDocument handles GET /documents.
func (s *Server) GetDocument(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusToDTO(s.sessions.Status()))
}

// DeleteDocument handles DELETE /documents.
func (s *Server) DeleteDocument(w http.ResponseWriter, _ *http.Request) {
	s.sessions.Reset()
	s.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleBodyError(w, err)
		return
	}
	topK := 0
	if req.TopK != nil {
		if *req.TopK <= 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "top_k must be greater than 0")
			return
		}
		topK = *req.TopK
	}

	resp, err := s.sessions.Ask(r.Context(), req.Question, topK)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	s.history.Append(
		conversation.NewMessage(conversation.RoleUser, req.Question, nil),
		conversation.NewMessage(conversation.RoleAssistant, resp.Answer, resp.Sources),
	)
	writeJSON(w, http.StatusOK, answerToDTO(resp))
}

// GetHistory handles GET /history.
func (s *Server) GetHistory(w http.ResponseWriter, _ *http.Request) {
	msgs := s.history.Messages()
	if msgs == nil {
		msgs = []conversation.Message{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Messages: msgs})
}

// ClearHistory handles DELETE /history.
func (s *Server) ClearHistory(w http.ResponseWriter, _ *http.Request) {
	s.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// errBodyTooLarge marks uploads above the configured limit.
var errBodyTooLarge = errors.New("request body too large")

func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("%w: limit %d bytes", errBodyTooLarge, mbe.Limit)
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
}

func (s *Server) handleBodyError(w http.ResponseWriter, err error) {
	if errors.Is(bodyError(err), errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, errBodyTooLarge.Error())
		return
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrUnsupportedType,
		domain.ErrNoTextFound,
		domain.ErrExtraction,
		domain.ErrNoChunks,
		domain.ErrIndexNotReady,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationFailure,
		domain.ErrVectorDimMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidInputHandler exposes the validation message, which never carries internals.
func invalidInputHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidInput) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContextOr(ctx, s.logger)
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, errBodyTooLarge.Error())
		return
	}
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
