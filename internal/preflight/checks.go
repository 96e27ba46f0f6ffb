package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"lyricalign/internal/config"
	"lyricalign/internal/deps"
)

// CheckFileReadable verifies that path exists, is a regular file, and can be read.
func CheckFileReadable(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "path not provided"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries the configured backend
// needs. "lyricalign doctor" renders the result; an align run does not
// check binaries up front and fails when the helper cannot start.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	var requirements []deps.Requirement
	switch {
	case cfg.Aligner.Backend == config.BackendWhisperX:
		requirements = append(requirements, deps.Requirement{
			Name:        "uvx",
			Command:     cfg.Aligner.UVXBinary,
			Description: "Runs WhisperX forced alignment",
		})
	case cfg.Aligner.UseUVX:
		requirements = append(requirements, deps.Requirement{
			Name:        "uvx",
			Command:     cfg.Aligner.UVXBinary,
			Description: "Runs stable-ts forced alignment",
		})
	default:
		requirements = append(requirements, deps.Requirement{
			Name:        "Python",
			Command:     cfg.Aligner.PythonBinary,
			Description: "Runs stable-ts forced alignment (needs the stable-ts package)",
		})
	}
	requirements = append(requirements, deps.Requirement{
		Name:        "FFmpeg",
		Command:     cfg.Audio.FFmpegBinary,
		Description: "Decodes audio for the model and converts non-WAV input",
		Optional:    !cfg.Audio.ConvertToWAV,
	})
	return deps.CheckBinaries(requirements)
}
