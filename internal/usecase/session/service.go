// Package session exposes the document Q&A workflow: load a document, ask, reset.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/document"
	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	"github.com/kailas-cloud/docchat/internal/logger"
	"github.com/kailas-cloud/docchat/internal/usecase/answer"
)

// Status describes the loaded document.
type Status struct {
	Loaded     bool
	Name       string
	Type       document.Type
	Chunks     int
	Characters int
	LoadedAt   time.Time
}

// Service coordinates extraction, chunking, indexing and answering for one document at a time.
type Service struct {
	extractor   Extractor
	splitter    Splitter
	index       Indexer
	answers     Answerer
	defaultTopK int
	logger      *zap.Logger

	loadMu sync.Mutex // serializes loads and resets

	mu  sync.RWMutex
	doc *document.Document
}

// New creates a session service.
func New(
	extractor Extractor, splitter Splitter, index Indexer, answers Answerer,
	defaultTopK int, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor:   extractor,
		splitter:    splitter,
		index:       index,
		answers:     answers,
		defaultTopK: defaultTopK,
		logger:      logger,
	}
}

// ProcessFile extracts text from an uploaded file and loads it.
// The type comes from declared, then the file name, then the content.
func (s *Service) ProcessFile(ctx context.Context, name, declared string, data []byte) (Status, error) {
	t, err := document.DetectType(name, declared, data)
	if err != nil {
		return Status{}, fmt.Errorf("detect type: %w", err)
	}
	text, err := s.extractor.Extract(ctx, data, t)
	if err != nil {
		return Status{}, fmt.Errorf("extract %s: %w", t, err)
	}
	return s.load(ctx, name, t, text)
}

// ProcessDocument chunks and indexes raw text, replacing any loaded document.
// Status.Chunks is the number of indexed chunks.
func (s *Service) ProcessDocument(ctx context.Context, name, text string) (Status, error) {
	return s.load(ctx, name, document.Text, text)
}

func (s *Service) load(ctx context.Context, name string, t document.Type, text string) (Status, error) {
	log := logger.FromContextOr(ctx, s.logger)

	doc, err := document.New(name, t, text)
	if err != nil {
		return Status{}, fmt.Errorf("new document: %w", err)
	}

	chunks := s.splitter.Split(doc.Text())
	if len(chunks) == 0 {
		return Status{}, fmt.Errorf("%s: %w", doc.Name(), domain.ErrNoChunks)
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	if err := s.index.AddDocuments(ctx, chunks); err != nil {
		log.Error("Document indexing failed",
			zap.String("name", doc.Name()),
			zap.Int("chunks", len(chunks)),
			zap.Error(err),
		)
		return Status{}, fmt.Errorf("index %s: %w", doc.Name(), err)
	}
	s.mu.Lock()
	s.doc = &doc
	status := s.statusLocked()
	s.mu.Unlock()

	log.Info("Document loaded",
		zap.String("name", doc.Name()),
		zap.String("type", string(doc.Type())),
		zap.Int("characters", doc.Characters()),
		zap.Int("chunks", len(chunks)),
		zap.Duration("duration", time.Since(start)),
	)
	return status, nil
}

// Ask answers question from the loaded document. topK 0 uses the default.
func (s *Service) Ask(ctx context.Context, question string, topK int) (answer.Response, error) {
	req, err := request.New(question, topK, s.defaultTopK)
	if err != nil {
		return answer.Response{}, err
	}
	if !s.DocumentLoaded() {
		return answer.Response{}, domain.ErrIndexNotReady
	}

	resp, err := s.answers.GenerateResponse(ctx, req.Question(), req.TopK())
	if err != nil {
		return answer.Response{}, fmt.Errorf("generate response: %w", err)
	}
	return resp, nil
}

// DocumentLoaded reports whether a document is indexed.
func (s *Service) DocumentLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc != nil && s.index.Count() > 0
}

// Reset drops the loaded document and empties the index.
func (s *Service) Reset() {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	s.index.Clear()
}

// Status returns the loaded document's statistics.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

func (s *Service) statusLocked() Status {
	if s.doc == nil {
		return Status{}
	}
	return Status{
		Loaded:     true,
		Name:       s.doc.Name(),
		Type:       s.doc.Type(),
		Chunks:     s.index.Count(),
		Characters: s.doc.Characters(),
		LoadedAt:   s.doc.LoadedAt(),
	}
}
