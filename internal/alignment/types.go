package alignment

import (
	"context"
)

// WordTiming is one aligned word in the emitted JSON array.
type WordTiming struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Word is a timed word as reported by an aligner. Extra fields such as
// probability are decoded for logging but never emitted.
type Word struct {
	Word        string   `json:"word"`
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Probability *float64 `json:"probability,omitempty"`
}

// Segment is a contiguous span of the aligned result.
type Segment struct {
	Text  string  `json:"text,omitempty"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// Result is the ordered segments-of-words output of one alignment call.
type Result struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}

// WordCount returns the total number of words across all segments.
func (r Result) WordCount() int {
	n := 0
	for _, seg := range r.Segments {
		n += len(seg.Words)
	}
	return n
}

// Request is the input to a single alignment call.
type Request struct {
	AudioPath string
	Text      string
	Language  string
	// WorkDir receives scratch files; the caller owns its lifetime.
	WorkDir string
}

// Aligner is a pretrained model backend that force-aligns text to audio.
type Aligner interface {
	// Name identifies the backend (e.g. "stable-ts").
	Name() string
	// Model returns the model variant the backend loads.
	Model() string
	// Align loads the model and aligns req.Text against req.AudioPath,
	// reporting progress through the optional callback.
	Align(ctx context.Context, req Request, progress ProgressFunc) (Result, error)
}
