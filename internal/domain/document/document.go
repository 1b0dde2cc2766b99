package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Type is a supported upload format.
type Type string

// Supported document types.
const (
	PDF      Type = "pdf"
	Text     Type = "txt"
	DOCX     Type = "docx"
	Markdown Type = "md"
	XLSX     Type = "xlsx"
)

// DefaultName is used when an upload carries no file name.
const DefaultName = "document"

var mimeTypes = map[string]Type{
	"application/pdf": PDF,
	"text/plain":      Text,
	"text/markdown":   Markdown,
	"text/x-markdown": Markdown,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": DOCX,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       XLSX,
}

var extensions = map[string]Type{
	".pdf":      PDF,
	".txt":      Text,
	".text":     Text,
	".docx":     DOCX,
	".md":       Markdown,
	".markdown": Markdown,
	".xlsx":     XLSX,
}

// ParseType accepts a short type name ("pdf") or a MIME type ("application/pdf; charset=binary").
func ParseType(s string) (Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch t := Type(strings.TrimPrefix(s, ".")); t {
	case PDF, Text, DOCX, Markdown, XLSX:
		return t, true
	}
	mediaType, _, _ := strings.Cut(s, ";")
	t, ok := mimeTypes[strings.TrimSpace(mediaType)]
	return t, ok
}

// DetectType resolves the document type from, in order: the declared type,
// the file name extension, and content sniffing.
func DetectType(name, declared string, data []byte) (Type, error) {
	if t, ok := ParseType(declared); ok {
		return t, nil
	}
	if t, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return t, nil
	}
	if len(data) > 0 {
		for m := mimetype.Detect(data); m != nil; m = m.Parent() {
			if t, ok := ParseType(m.String()); ok {
				return t, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %w: %q", domain.ErrExtraction, domain.ErrUnsupportedType, describe(name, declared))
}

func describe(name, declared string) string {
	if declared != "" {
		return declared
	}
	if name != "" {
		return name
	}
	return "unknown"
}

// Document is the text of the currently loaded upload (immutable value object).
type Document struct {
	name     string
	docType  Type
	text     string
	loadedAt time.Time
}

// New validates and creates a Document. Empty names fall back to DefaultName.
func New(name string, t Type, text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("%w: %w", domain.ErrExtraction, domain.ErrNoTextFound)
	}
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultName
	}
	if t == "" {
		t = Text
	}
	return Document{name: name, docType: t, text: text, loadedAt: time.Now().UTC()}, nil
}

// Name returns the file name without directories.
func (d *Document) Name() string { return d.name }

// Type returns the source format.
func (d *Document) Type() Type { return d.docType }

// Text returns the extracted text.
func (d *Document) Text() string { return d.text }

// Characters returns the text length in characters.
func (d *Document) Characters() int { return utf8.RuneCountInString(d.text) }

// LoadedAt returns when the document was created.
func (d *Document) LoadedAt() time.Time { return d.loadedAt }
