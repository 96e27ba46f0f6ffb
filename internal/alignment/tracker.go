package alignment

import "sync"

// StageTracker relays progress markers from helper stderr and remembers the
// furthest stage reached, which backends use to tell a model-load failure
// from an alignment failure.
type StageTracker struct {
	mu       sync.Mutex
	progress ProgressFunc
	other    func(string)
	reached  Stage
	seen     bool
}

// NewStageTracker returns a tracker forwarding stages to progress and any
// non-marker line to other. Both callbacks may be nil.
func NewStageTracker(progress ProgressFunc, other func(line string)) *StageTracker {
	return &StageTracker{progress: progress, other: other}
}

// HandleLine consumes one stderr line.
func (t *StageTracker) HandleLine(line string) {
	stage, ok := MarkerFromLine(line)
	if !ok {
		if t.other != nil {
			t.other(line)
		}
		return
	}
	t.mu.Lock()
	if !t.seen || stage > t.reached {
		t.reached = stage
		t.seen = true
	}
	t.mu.Unlock()
	if t.progress != nil {
		t.progress(stage)
	}
}

// Reached reports the furthest stage observed and whether any was seen.
func (t *StageTracker) Reached() (Stage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reached, t.seen
}

// ModelLoaded reports whether the helper got past loading the model.
func (t *StageTracker) ModelLoaded() bool {
	stage, ok := t.Reached()
	return ok && stage >= StageModelLoaded
}
