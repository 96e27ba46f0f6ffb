package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lyricalign/internal/logging"
)

// StaleRunAge is how old an abandoned run directory must be before CleanStale
// removes it.
const StaleRunAge = 24 * time.Hour

// CleanStaleResult contains the outcome of a stale run cleanup.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes run directories under root older than maxAge. They are
// left behind when a process is killed before its deferred cleanup runs.
func CleanStale(root string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	root = strings.TrimSpace(root)
	if root == "" {
		return result
	}
	runsDir := filepath.Join(root, runsDirName)

	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: runsDir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirPath := filepath.Join(runsDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale run directory",
					logging.String("path", dirPath),
					logging.Error(err),
					logging.String(logging.FieldEventType, "workspace_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check work_dir permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		if logger != nil {
			logger.Debug("removed stale run directory",
				logging.String("path", dirPath),
				logging.Duration("age", time.Since(info.ModTime())),
				logging.String(logging.FieldEventType, "workspace_cleanup"),
			)
		}
	}
	return result
}
