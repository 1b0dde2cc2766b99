package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// pageSource yields the text of 1-indexed pages.
type pageSource interface {
	NumPage() int
	PageText(num int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.r.NumPage() }

func (p pdfPages) PageText(num int) (string, error) {
	page := p.r.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d not found", num)
	}
	return page.GetPlainText(nil)
}

func (e *Extractor) pdf(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	return e.joinPages(ctx, pdfPages{r: r})
}

// joinPages concatenates page texts; unreadable pages are logged and skipped.
func (e *Extractor) joinPages(ctx context.Context, src pageSource) (string, error) {
	var b strings.Builder
	n := src.NumPage()
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := safePageText(src, i)
		if err != nil {
			e.logger.Warn("Skipping unreadable PDF page",
				zap.Int("page", i),
				zap.Int("pages", n),
				zap.Error(err),
			)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func safePageText(src pageSource, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", num, r)
		}
	}()
	return src.PageText(num)
}
