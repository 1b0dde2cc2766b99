package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// docxText returns body paragraphs followed by table rows, one per line.
// Cells of a row are joined by a space.
func docxText(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer func() { _ = r.Close() }()

	paragraphs, rows, err := parseDocumentXML(r.Editable().GetContent())
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(paragraphs)+len(rows))
	lines = append(lines, paragraphs...)
	lines = append(lines, rows...)
	return strings.Join(lines, "\n"), nil
}

// parseDocumentXML walks word/document.xml. Nested tables are flattened into the
// enclosing cell.
func parseDocumentXML(content string) (paragraphs, rows []string, err error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		tblDepth int
		inText   bool
		para     strings.Builder
		cell     strings.Builder
		cells    []string
	)

	for {
		tok, tokErr := dec.Token()
		if errors.Is(tokErr, io.EOF) {
			break
		}
		if tokErr != nil {
			return nil, nil, fmt.Errorf("parse document.xml: %w", tokErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "tr":
				if tblDepth == 1 {
					cells = cells[:0]
				}
			case "tc":
				if tblDepth == 1 {
					cell.Reset()
				}
			case "p":
				if tblDepth == 0 {
					para.Reset()
				} else if cell.Len() > 0 {
					cell.WriteByte(' ')
				}
			case "t":
				inText = true
			case "tab":
				writeRun(tblDepth, &para, &cell, "\t")
			case "br":
				writeRun(tblDepth, &para, &cell, " ")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth--
			case "tr":
				if tblDepth == 1 && len(cells) > 0 {
					if row := strings.TrimSpace(strings.Join(cells, " ")); row != "" {
						rows = append(rows, row)
					}
				}
			case "tc":
				if tblDepth == 1 {
					cells = append(cells, strings.TrimSpace(cell.String()))
				}
			case "p":
				if tblDepth == 0 {
					if p := strings.TrimSpace(para.String()); p != "" {
						paragraphs = append(paragraphs, p)
					}
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				writeRun(tblDepth, &para, &cell, string(t))
			}
		}
	}
	return paragraphs, rows, nil
}

func writeRun(tblDepth int, para, cell *strings.Builder, s string) {
	if tblDepth == 0 {
		para.WriteString(s)
		return
	}
	cell.WriteString(s)
}
