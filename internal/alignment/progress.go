package alignment

// Stage is a coarse progress milestone reported by an aligner.
type Stage int

const (
	StageLoadingModel Stage = iota
	StageModelLoaded
	StageAligning
	StageAlignmentComplete
)

// String returns the human-readable progress message for the stage.
func (s Stage) String() string {
	switch s {
	case StageLoadingModel:
		return "Loading model..."
	case StageModelLoaded:
		return "Model loaded."
	case StageAligning:
		return "Aligning..."
	case StageAlignmentComplete:
		return "Alignment complete."
	default:
		return "unknown stage"
	}
}

// ProgressFunc receives progress milestones in order.
type ProgressFunc func(Stage)

// ParseStage maps a progress marker emitted by an aligner helper script
// to its Stage.
func ParseStage(marker string) (Stage, bool) {
	switch marker {
	case "loading_model":
		return StageLoadingModel, true
	case "model_loaded":
		return StageModelLoaded, true
	case "aligning":
		return StageAligning, true
	case "alignment_complete":
		return StageAlignmentComplete, true
	default:
		return 0, false
	}
}

// ProgressPrefix starts every progress marker line helper scripts print on stderr.
const ProgressPrefix = "lyricalign:progress "

// MarkerFromLine extracts the stage from a helper stderr line.
func MarkerFromLine(line string) (Stage, bool) {
	if len(line) <= len(ProgressPrefix) || line[:len(ProgressPrefix)] != ProgressPrefix {
		return 0, false
	}
	return ParseStage(line[len(ProgressPrefix):])
}
