// Package extract turns uploaded file bytes into plain text.
package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docchat/internal/domain"
	"github.com/kailas-cloud/docchat/internal/domain/document"
)

// Extractor reads PDF, DOCX, XLSX, Markdown and plain text files.
type Extractor struct {
	logger *zap.Logger
}

// New creates an Extractor. Page-level PDF failures are reported to logger.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the text content of data interpreted as t.
func (e *Extractor) Extract(ctx context.Context, data []byte, t document.Type) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %w: empty file", domain.ErrExtraction, domain.ErrNoTextFound)
	}

	var (
		text string
		err  error
	)
	switch t {
	case document.PDF:
		text, err = e.pdf(ctx, data)
	case document.DOCX:
		text, err = docxText(data)
	case document.XLSX:
		text, err = xlsxText(data)
	case document.Markdown:
		var raw string
		raw, err = decodeText(data)
		if err == nil {
			text = markdownText([]byte(raw))
		}
	case document.Text:
		text, err = decodeText(data)
	default:
		return "", fmt.Errorf("%w: %w: %q", domain.ErrExtraction, domain.ErrUnsupportedType, t)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtraction, t, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %w in %s", domain.ErrExtraction, domain.ErrNoTextFound, t)
	}
	return text, nil
}
