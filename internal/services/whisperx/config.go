package whisperx

import "time"

// Config captures runtime settings for WhisperX alignment.
type Config struct {
	// Model overrides the alignment model (a torchaudio bundle name or a
	// Hugging Face wav2vec2 id). Whisper size names select the language
	// default.
	Model string
	// Device is "auto", "cpu" or "cuda".
	Device string
	// UVXBinary launches the helper environment.
	UVXBinary string
	// Package is the pip requirement uvx installs.
	Package string
	// HFToken authenticates Hugging Face model downloads.
	HFToken string
	// Timeout bounds the whole helper run; zero means no limit.
	Timeout time.Duration
}

// WhisperX configuration constants.
const (
	BackendName    = "whisperx"
	DefaultModel   = "auto"
	DefaultPackage = "whisperx"
	UVXCommand     = "uvx"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	AutoDevice     = "auto"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
)

// whisperSizes are transcription model names that carry no meaning for the
// alignment step.
var whisperSizes = map[string]struct{}{
	"tiny": {}, "tiny.en": {}, "base": {}, "base.en": {}, "small": {}, "small.en": {},
	"medium": {}, "medium.en": {}, "large": {}, "large-v1": {}, "large-v2": {},
	"large-v3": {}, "large-v3-turbo": {}, "turbo": {},
}

func (c Config) withDefaults() Config {
	if _, ok := whisperSizes[c.Model]; ok || c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Device == "" {
		c.Device = AutoDevice
	}
	if c.UVXBinary == "" {
		c.UVXBinary = UVXCommand
	}
	if c.Package == "" {
		c.Package = DefaultPackage
	}
	return c
}
