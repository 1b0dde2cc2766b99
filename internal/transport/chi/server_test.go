package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/conversation"
	"github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	sessionuc "github.com/kailas-cloud/docchat/internal/usecase/session"
)

// --- Mocks ---

type mockSessions struct {
	processFileFn func(ctx context.Context, name, declared string, data []byte) (sessionuc.Status, error)
	processDocFn  func(ctx context.Context, name, text string) (sessionuc.Status, error)
	askFn         func(ctx context.Context, question string, topK int) (answer.Response, error)
	status        sessionuc.Status
	resets        int
}

func (m *mockSessions) ProcessFile(ctx context.Context, name, declared string, data []byte) (sessionuc.Status, error) {
	if m.processFileFn != nil {
		return m.processFileFn(ctx, name, declared, data)
	}
	return sessionuc.Status{}, nil
}

func (m *mockSessions) ProcessDocument(ctx context.Context, name, text string) (sessionuc.Status, error) {
	if m.processDocFn != nil {
		return m.processDocFn(ctx, name, text)
	}
	return sessionuc.Status{}, nil
}

func (m *mockSessions) Ask(ctx context.Context, question string, topK int) (answer.Response, error) {
	if m.askFn != nil {
		return m.askFn(ctx, question, topK)
	}
	return answer.Response{}, nil
}

func (m *mockSessions) Reset() { m.resets++ }

func (m *mockSessions) Status() sessionuc.Status { return m.status }

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func loadedStatus() sessionuc.Status {
	return sessionuc.Status{
		Loaded:     true,
		Name:       "notes.txt",
		Type:       document.Text,
		Chunks:     4,
		Characters: 3000,
		LoadedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func newTestRouter(sess *mockSessions, history *conversation.History, maxUpload int64) http.Handler {
	h := &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"embedding": healthuc.CheckOK},
	}}
	srv := NewServer(sess, history, h, maxUpload, nil)
	return NewRouter(srv, nil, srv.logger)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestUploadDocument_JSON(t *testing.T) {
	var gotName, gotText string
	sess := &mockSessions{processDocFn: func(_ context.Context, name, text string) (sessionuc.Status, error) {
		gotName, gotText = name, text
		return loadedStatus(), nil
	}}
	history := conversation.NewHistory()
	history.Append(conversation.NewMessage(conversation.RoleUser, "old question", nil))

	rr := doJSON(t, newTestRouter(sess, history, 0), http.MethodPost, "/documents",
		TextDocumentRequest{Name: "notes.txt", Text: "body"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if gotName != "notes.txt" || gotText != "body" {
		t.Errorf("session got (%q, %q)", gotName, gotText)
	}
	var resp DocumentResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Loaded || resp.Chunks != 4 || resp.Type != "txt" || resp.LoadedAt == nil {
		t.Errorf("unexpected response: %+v", resp)
	}
	if history.Len() != 0 {
		t.Errorf("history not cleared after load, len = %d", history.Len())
	}
}

func TestUploadDocument_Multipart(t *testing.T) {
	var gotName, gotDeclared string
	var gotData []byte
	sess := &mockSessions{processFileFn: func(_ context.Context, name, declared string, data []byte) (sessionuc.Status, error) {
		gotName, gotDeclared, gotData = name, declared, data
		return loadedStatus(), nil
	}}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="report.md"`)
	hdr.Set("Content-Type", "text/markdown")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write([]byte("# Title"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestRouter(sess, nil, 1<<20).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if gotName != "report.md" || gotDeclared != "text/markdown" || string(gotData) != "# Title" {
		t.Errorf("session got (%q, %q, %q)", gotName, gotDeclared, gotData)
	}
}

func TestUploadDocument_MultipartTypeField(t *testing.T) {
	var gotDeclared string
	sess := &mockSessions{processFileFn: func(_ context.Context, _, declared string, _ []byte) (sessionuc.Status, error) {
		gotDeclared = declared
		return loadedStatus(), nil
	}}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("type", "pdf")
	fw, _ := mw.CreateFormFile("file", "scan.bin")
	_, _ = fw.Write([]byte("%PDF-1.4"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestRouter(sess, nil, 0).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
	if gotDeclared != "pdf" {
		t.Errorf("declared = %q, want pdf", gotDeclared)
	}
}

func TestUploadDocument_MultipartMissingFile(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("type", "pdf")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestRouter(&mockSessions{}, nil, 0).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeValidationFailed {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestUploadDocument_TooLarge(t *testing.T) {
	sess := &mockSessions{}
	rr := doJSON(t, newTestRouter(sess, nil, 16), http.MethodPost, "/documents",
		TextDocumentRequest{Name: "big.txt", Text: strings.Repeat("x", 100)})

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodePayloadTooLarge {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestUploadDocument_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestRouter(&mockSessions{}, nil, 0).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeBadRequest {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestUploadDocument_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"unsupported", fmt.Errorf("%w: %w", domain.ErrExtraction, domain.ErrUnsupportedType), http.StatusUnprocessableEntity, CodeUnsupportedType},
		{"no text", fmt.Errorf("%w: %w", domain.ErrExtraction, domain.ErrNoTextFound), http.StatusUnprocessableEntity, CodeNoTextFound},
		{"extraction", fmt.Errorf("%w: pdf: boom", domain.ErrExtraction), http.StatusUnprocessableEntity, CodeExtractionFailed},
		{"no chunks", domain.ErrNoChunks, http.StatusUnprocessableEntity, CodeNoChunks},
		{"provider", fmt.Errorf("embed chunk 0: %w: %w", domain.ErrEmbeddingProviderError, errors.New("timeout")), http.StatusBadGateway, CodeEmbeddingProvider},
		{"provider dim", fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, domain.ErrVectorDimMismatch), http.StatusBadGateway, CodeEmbeddingProvider},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &mockSessions{processDocFn: func(context.Context, string, string) (sessionuc.Status, error) {
				return sessionuc.Status{}, tt.err
			}}
			rr := doJSON(t, newTestRouter(sess, nil, 0), http.MethodPost, "/documents",
				TextDocumentRequest{Text: "x"})
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Code, tt.code)
			}
			if strings.Contains(resp.Message, "timeout") || strings.Contains(resp.Message, "disk") {
				t.Errorf("message leaks internals: %q", resp.Message)
			}
		})
	}
}

func TestGetDocument(t *testing.T) {
	rr := doJSON(t, newTestRouter(&mockSessions{}, nil, 0), http.MethodGet, "/documents", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp DocumentResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Loaded || resp.LoadedAt != nil {
		t.Errorf("expected empty status, got %+v", resp)
	}
}

func TestDeleteDocument(t *testing.T) {
	sess := &mockSessions{status: loadedStatus()}
	history := conversation.NewHistory()
	history.Append(conversation.NewMessage(conversation.RoleUser, "q", nil))

	rr := doJSON(t, newTestRouter(sess, history, 0), http.MethodDelete, "/documents", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if sess.resets != 1 {
		t.Errorf("resets = %d, want 1", sess.resets)
	}
	if history.Len() != 0 {
		t.Errorf("history len = %d, want 0", history.Len())
	}
}

func TestAsk_AppendsHistory(t *testing.T) {
	var gotTopK int
	sess := &mockSessions{askFn: func(_ context.Context, q string, topK int) (answer.Response, error) {
		gotTopK = topK
		return answer.Response{Answer: "42", Sources: []string{"chunk"}, Outcome: answer.OutcomeAnswered}, nil
	}}
	history := conversation.NewHistory()
	topK := 5

	rr := doJSON(t, newTestRouter(sess, history, 0), http.MethodPost, "/ask",
		AskRequest{Question: "what?", TopK: &topK})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp AskResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Answer != "42" || resp.Outcome != "answered" || len(resp.Sources) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if gotTopK != 5 {
		t.Errorf("topK = %d, want 5", gotTopK)
	}

	msgs := history.Messages()
	if len(msgs) != 2 {
		t.Fatalf("history len = %d, want 2", len(msgs))
	}
	if msgs[0].Role != conversation.RoleUser || msgs[0].Content != "what?" {
		t.Errorf("first message = %+v", msgs[0])
	}
	if msgs[1].Role != conversation.RoleAssistant || msgs[1].Content != "42" {
		t.Errorf("second message = %+v", msgs[1])
	}
}

func TestAsk_FallbackMessagesAreAnswers(t *testing.T) {
	sess := &mockSessions{askFn: func(context.Context, string, int) (answer.Response, error) {
		return answer.Response{Answer: answer.NoResultsMessage, Sources: []string{}, Outcome: answer.OutcomeNoResults}, nil
	}}
	rr := doJSON(t, newTestRouter(sess, nil, 0), http.MethodPost, "/ask", AskRequest{Question: "q"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp AskResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Answer != answer.NoResultsMessage || resp.Sources == nil {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAsk_InvalidTopK(t *testing.T) {
	topK := 0
	rr := doJSON(t, newTestRouter(&mockSessions{}, nil, 0), http.MethodPost, "/ask",
		AskRequest{Question: "q", TopK: &topK})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestAsk_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"not ready", domain.ErrIndexNotReady, http.StatusConflict, CodeIndexNotReady},
		{"invalid", fmt.Errorf("%w: question is required", domain.ErrInvalidInput), http.StatusBadRequest, CodeValidationFailed},
		{"generation", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, errors.New("503")), http.StatusBadGateway, CodeGenerationFailure},
		{"dimension mismatch", fmt.Errorf("knn search: %w", domain.ErrVectorDimMismatch), http.StatusBadGateway, CodeVectorDimMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &mockSessions{askFn: func(context.Context, string, int) (answer.Response, error) {
				return answer.Response{}, tt.err
			}}
			history := conversation.NewHistory()
			rr := doJSON(t, newTestRouter(sess, history, 0), http.MethodPost, "/ask", AskRequest{Question: "q"})
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if resp := decodeError(t, rr); resp.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Code, tt.code)
			}
			if history.Len() != 0 {
				t.Errorf("failed ask must not be recorded, len = %d", history.Len())
			}
		})
	}
}

func TestHistory_GetAndClear(t *testing.T) {
	history := conversation.NewHistory()
	h := newTestRouter(&mockSessions{}, history, 0)

	rr := doJSON(t, h, http.MethodGet, "/history", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"messages":[]`) {
		t.Fatalf("empty history: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	history.Append(conversation.NewMessage(conversation.RoleUser, "q", nil))
	rr = doJSON(t, h, http.MethodGet, "/history", nil)
	var resp HistoryResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(resp.Messages))
	}

	rr = doJSON(t, h, http.MethodDelete, "/history", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rr.Code)
	}
	if history.Len() != 0 {
		t.Errorf("history len = %d", history.Len())
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		status healthuc.Status
		want   int
	}{
		{"healthy", healthuc.Healthy, http.StatusOK},
		{"degraded", healthuc.Degraded, http.StatusServiceUnavailable},
		{"unhealthy", healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &mockHealth{report: healthuc.Report{
				Status: tt.status,
				Checks: map[string]healthuc.CheckResult{"cache": healthuc.CheckOK},
			}}
			srv := NewServer(&mockSessions{}, nil, h, 0, nil)
			rr := httptest.NewRecorder()
			srv.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			var resp HealthResponse
			_ = json.NewDecoder(rr.Body).Decode(&resp)
			if resp.Status != string(tt.status) || resp.Checks["cache"] != "ok" {
				t.Errorf("unexpected body: %+v", resp)
			}
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	rr := doJSON(t, newTestRouter(&mockSessions{}, nil, 0), http.MethodGet, "/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
