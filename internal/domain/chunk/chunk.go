// Package chunk splits document text into overlapping, sentence-aware segments.
package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Defaults used when no explicit settings are configured.
const (
	DefaultSize      = 1000
	DefaultOverlap   = 200
	DefaultMinLength = 50
)

// Boundary search window around the proposed chunk end.
const (
	lookBehind = 100
	lookAhead  = 50
)

// Settings controls chunk sizing. Sizes are counted in characters (runes).
type Settings struct {
	Size      int
	Overlap   int
	MinLength int
}

// DefaultSettings returns 1000-character chunks with a 200-character overlap.
func DefaultSettings() Settings {
	return Settings{Size: DefaultSize, Overlap: DefaultOverlap, MinLength: DefaultMinLength}
}

// Validate checks the settings. Overlap may exceed Size: the splitter still terminates.
func (s Settings) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("chunk size must be greater than 0, got %d", s.Size)
	}
	if s.Overlap < 0 {
		return fmt.Errorf("chunk overlap must not be negative, got %d", s.Overlap)
	}
	if s.MinLength < 0 {
		return fmt.Errorf("chunk min length must not be negative, got %d", s.MinLength)
	}
	return nil
}

// Splitter cuts normalized text into chunks. It is stateless and safe for concurrent use.
type Splitter struct {
	settings Settings
}

// NewSplitter validates settings and creates a Splitter.
func NewSplitter(s Settings) (*Splitter, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{settings: s}, nil
}

// Settings returns the splitter configuration.
func (s *Splitter) Settings() Settings { return s.settings }

// Normalize strips carriage returns, collapses double newlines and trims surrounding whitespace.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n\n", "\n")
	return strings.TrimSpace(text)
}

// Split returns the chunks of text in document order.
// Empty or whitespace-only input yields nil.
func (s *Splitter) Split(text string) []string {
	runes := []rune(Normalize(text))
	n := len(runes)
	size, overlap := s.settings.Size, s.settings.Overlap

	var chunks []string
	start := 0
	for start < n {
		end := start + size
		if end < n {
			from := max(start+size-lookBehind, start)
			to := min(end+lookAhead, n)
			if b := lastSentenceEnd(runes, from, to); b > start {
				end = b
			}
		} else {
			end = n
		}

		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, piece)
		}
		// The last window ends the loop, so a text no longer than Size stays one chunk.
		if end >= n {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return s.dropShort(chunks)
}

// lastSentenceEnd returns the position right after the last terminator in runes[from:to]
// that is followed by whitespace, or -1.
func lastSentenceEnd(runes []rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if !isTerminator(runes[i]) {
			continue
		}
		if i+1 < len(runes) && isBreak(runes[i+1]) {
			return i + 1
		}
	}
	return -1
}

func isTerminator(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isBreak(r rune) bool { return r == ' ' || r == '\n' || r == '\t' }

func (s *Splitter) dropShort(chunks []string) []string {
	kept := chunks[:0]
	for _, c := range chunks {
		if utf8.RuneCountInString(c) >= s.settings.MinLength {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
