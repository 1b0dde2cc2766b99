package chunk

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func syntheticDocument(length int) string {
	var b strings.Builder
	for i := 0; b.Len() < length; i++ {
		fmt.Fprintf(&b, "This is sentence %04d of the synthetic test document. ", i)
	}
	return b.String()[:length]
}

func mustSplitter(t *testing.T, s Settings) *Splitter {
	t.Helper()
	sp, err := NewSplitter(s)
	if err != nil {
		t.Fatalf("NewSplitter(%+v): %v", s, err)
	}
	return sp
}

func TestNewSplitter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"defaults", DefaultSettings(), false},
		{"overlap larger than size", Settings{Size: 10, Overlap: 20}, false},
		{"zero size", Settings{Size: 0}, true},
		{"negative overlap", Settings{Size: 10, Overlap: -1}, true},
		{"negative min length", Settings{Size: 10, MinLength: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSplitter(tt.s)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSplitter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("  \r\nfirst\r\n\r\nsecond\n\nthird  \n")
	if got != "first\nsecond\nthird" {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	sp := mustSplitter(t, DefaultSettings())
	for _, in := range []string{"", "   ", "\n\r\n\t"} {
		if got := sp.Split(in); got != nil {
			t.Errorf("Split(%q) = %v, want nil", in, got)
		}
	}
}

func TestSplit_BelowMinLength(t *testing.T) {
	sp := mustSplitter(t, DefaultSettings())
	for n := 1; n < DefaultMinLength; n += 7 {
		text := strings.Repeat("x", n)
		if got := sp.Split(text); len(got) != 0 {
			t.Errorf("Split(len=%d) returned %d chunks, want 0", n, len(got))
		}
	}
}

func TestSplit_ShortDocumentSingleChunk(t *testing.T) {
	sp := mustSplitter(t, DefaultSettings())
	text := "A short document. It has two sentences and stays under the chunk size."

	got := sp.Split(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != text {
		t.Errorf("chunk = %q", got[0])
	}
}

func TestSplit_LastWindowEmitsNoOverlapTail(t *testing.T) {
	sp := mustSplitter(t, DefaultSettings())
	text := strings.Repeat("x", 900)

	got := sp.Split(text)
	if len(got) != 1 || got[0] != text {
		t.Fatalf("expected the whole text as 1 chunk, got %d chunks", len(got))
	}
}

func TestSplit_RoundTripDocument(t *testing.T) {
	sp := mustSplitter(t, DefaultSettings())
	doc := syntheticDocument(3000)

	chunks := sp.Split(doc)
	if len(chunks) < 4 || len(chunks) > 5 {
		t.Fatalf("expected 4-5 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		n := utf8.RuneCountInString(c)
		if n < DefaultMinLength {
			t.Errorf("chunk %d shorter than minimum: %d", i, n)
		}
		if n > DefaultSize+lookAhead {
			t.Errorf("chunk %d longer than size+lookahead: %d", i, n)
		}
	}
	// Sentence-aware boundaries: every chunk but the last ends on a terminator.
	for i, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c, ".") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", i, c[len(c)-20:])
		}
	}
}

func TestSplit_CoversSourceLeftToRight(t *testing.T) {
	sp := mustSplitter(t, DefaultSettings())
	doc := Normalize(syntheticDocument(5000))

	chunks := sp.Split(doc)
	prevStart, prevEnd := -1, 0
	for i, c := range chunks {
		pos := strings.Index(doc[prevStart+1:], c)
		if pos < 0 {
			t.Fatalf("chunk %d is not a substring after the previous chunk", i)
		}
		start := prevStart + 1 + pos
		if i == 0 && start != 0 {
			t.Errorf("first chunk starts at %d, want 0", start)
		}
		if i > 0 && start > prevEnd {
			t.Errorf("gap between chunk %d and %d: [%d, %d)", i-1, i, prevEnd, start)
		}
		prevStart, prevEnd = start, start+len(c)
	}
	if prevEnd != len(doc) {
		t.Errorf("last chunk ends at %d, want %d", prevEnd, len(doc))
	}
}

func TestSplit_OverlapDuplicatesTail(t *testing.T) {
	sp := mustSplitter(t, Settings{Size: 100, Overlap: 30, MinLength: 1})
	doc := strings.Repeat("abcdefghij", 25)

	chunks := sp.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	first, second := chunks[0], chunks[1]
	if !strings.HasPrefix(second, first[len(first)-30:]) {
		t.Errorf("second chunk does not start with the 30-char overlap of the first")
	}
}

func TestSplit_TerminatesWhenOverlapExceedsSize(t *testing.T) {
	sp := mustSplitter(t, Settings{Size: 10, Overlap: 20, MinLength: 5})

	chunks := sp.Split(strings.Repeat("a", 500))
	if len(chunks) != 50 {
		t.Fatalf("expected 50 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) != 10 {
			t.Errorf("chunk %d has length %d, want 10", i, len(c))
		}
	}
}

func TestSplit_PrefersLastSentenceEnd(t *testing.T) {
	sp := mustSplitter(t, Settings{Size: 200, Overlap: 0, MinLength: 1})
	// Terminators at 120, 150 and 230: the window [100, 250) keeps the last one.
	text := strings.Repeat("a", 119) + ". " + strings.Repeat("b", 28) + ". " +
		strings.Repeat("c", 78) + ". " + strings.Repeat("d", 100)

	chunks := sp.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "c.") {
		t.Errorf("first chunk should end after the c-run, got ...%q", chunks[0][len(chunks[0])-5:])
	}
	if !strings.HasPrefix(chunks[1], "d") {
		t.Errorf("second chunk should start with d, got %q", chunks[1][:5])
	}
}

func TestSplit_IgnoresTerminatorWithoutWhitespace(t *testing.T) {
	sp := mustSplitter(t, Settings{Size: 100, Overlap: 0, MinLength: 1})
	text := strings.Repeat("x", 95) + "3.14" + strings.Repeat("y", 60)

	chunks := sp.Split(text)
	if utf8.RuneCountInString(chunks[0]) != 100 {
		t.Errorf("expected hard cut at 100, got %d", utf8.RuneCountInString(chunks[0]))
	}
}

func TestSplit_CountsRunes(t *testing.T) {
	sp := mustSplitter(t, Settings{Size: 60, Overlap: 0, MinLength: 50})
	text := strings.Repeat("ж", 120)

	chunks := sp.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if utf8.RuneCountInString(chunks[0]) != 60 {
		t.Errorf("chunk rune count = %d, want 60", utf8.RuneCountInString(chunks[0]))
	}
}
