// Package services defines shared utilities consumed by the alignment
// backends and the run workflow.
//
// Key responsibilities:
//   - Context helpers that stamp the run identifier for logging.
//   - Structured error markers plus the Wrap helper that name the failing
//     step (model load, file access, alignment) without changing the exit
//     status.
//   - Thin abstractions that make command execution and progress streaming from
//     external tools testable.
package services
