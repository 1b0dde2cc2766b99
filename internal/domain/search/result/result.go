package result

// Result is a single ranked chunk.
type Result struct {
	text     string
	score    float64
	position int
}

// New creates a search result. Position is the chunk's index in document order.
func New(text string, score float64, position int) Result {
	return Result{text: text, score: score, position: position}
}

// Text returns the chunk text.
func (r *Result) Text() string { return r.text }

// Score returns the cosine similarity to the query.
func (r *Result) Score() float64 { return r.score }

// Position returns the chunk's index in the document.
func (r *Result) Position() int { return r.position }

// Texts returns the chunk texts of rs in order.
func Texts(rs []Result) []string {
	out := make([]string, len(rs))
	for i := range rs {
		out[i] = rs[i].text
	}
	return out
}

// Above returns the results whose score is strictly greater than floor, keeping order.
func Above(rs []Result, floor float64) []Result {
	var out []Result
	for _, r := range rs {
		if r.score > floor {
			out = append(out, r)
		}
	}
	return out
}
