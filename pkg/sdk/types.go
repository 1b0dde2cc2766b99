package docchat

import "time"

// DocumentType identifies a supported document format.
type DocumentType string

// Supported document types. An empty type asks the client to detect it.
const (
	TypePDF      DocumentType = "pdf"
	TypeText     DocumentType = "txt"
	TypeDOCX     DocumentType = "docx"
	TypeMarkdown DocumentType = "md"
	TypeXLSX     DocumentType = "xlsx"
)

// Status describes the loaded document.
type Status struct {
	Loaded     bool
	Name       string
	Type       DocumentType
	Chunks     int
	Characters int
	LoadedAt   time.Time
}

// Outcome classifies how a question was handled.
type Outcome string

// Outcomes.
const (
	OutcomeAnswered      Outcome = "answered"
	OutcomeNoResults     Outcome = "no_results"
	OutcomeLowConfidence Outcome = "low_confidence"
)

// Answer is the reply to a question with the chunks it was grounded on.
// Sources is empty when Outcome is not OutcomeAnswered.
type Answer struct {
	Text    string
	Sources []string
	Outcome Outcome
}
