// Package deps resolves the external programs lyricalign shells out to: the
// Python interpreter or uvx that hosts the aligner helper, and ffmpeg for
// optional audio conversion.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names one helper binary. Optional binaries are reported but
// never fail doctor.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup outcome for a Requirement. Path is set when the
// command resolved; Detail explains why it did not.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// Check resolves req.Command through PATH (or as a literal path).
func Check(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available = true
	status.Path = resolved
	return status
}

// CheckBinaries runs Check over requirements, preserving order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, Check(req))
	}
	return results
}

// MissingRequired returns the required dependencies that are unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

// Names lists the Name of each status, for error messages.
func Names(statuses []Status) []string {
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, status.Name)
	}
	return names
}
