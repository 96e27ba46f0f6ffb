package alignment

import (
	"io"
	"math"
)

// FrameTiming is a WordTiming enriched with video frame indices.
type FrameTiming struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	FrameStart int     `json:"frame_start"`
	FrameEnd   int     `json:"frame_end"`
}

// WithFrames converts seconds to frame indices at fps, flooring both ends.
func WithFrames(words []WordTiming, fps float64) []FrameTiming {
	out := make([]FrameTiming, 0, len(words))
	for _, w := range words {
		out = append(out, FrameTiming{
			Word:       w.Word,
			Start:      w.Start,
			End:        w.End,
			FrameStart: int(math.Floor(w.Start * fps)),
			FrameEnd:   int(math.Floor(w.End * fps)),
		})
	}
	return out
}

// EncodeFrames writes frame-enriched words as a 2-space indented JSON array.
func EncodeFrames(w io.Writer, frames []FrameTiming) error {
	if frames == nil {
		frames = []FrameTiming{}
	}
	return encodeIndented(w, frames)
}
