package preflight

import (
	"errors"
	"strings"

	"lyricalign/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckInputs verifies the audio and lyrics files and the work directory.
func CheckInputs(cfg *config.Config, audioPath, lyricsPath string) []Result {
	results := []Result{
		CheckFileReadable("Audio file", audioPath),
		CheckFileReadable("Lyrics file", lyricsPath),
	}
	if cfg != nil && strings.TrimSpace(cfg.Paths.WorkDir) != "" {
		results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	}
	return results
}

// ErrFailed marks errors built from failed preflight results.
var ErrFailed = errors.New("preflight check failed")
