// Package stablets force-aligns lyrics to audio with the stable-ts Python
// library.
//
// The service runs an embedded helper script through python (or uvx when no
// local stable-ts install is available). The script loads the requested
// Whisper model, calls model.align with the full lyrics text, and writes the
// segments and words as JSON to a file in the run's work directory. Progress
// markers the script prints on stderr are relayed to the caller.
package stablets
