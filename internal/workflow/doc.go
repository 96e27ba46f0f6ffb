// Package workflow runs one alignment from input files to flattened word
// timings.
//
// Runner checks inputs and binaries, reads the lyrics, prepares a per-run
// workspace (converting audio when asked), consults the alignment cache and
// otherwise calls the configured Aligner under a per-model lock. Progress is
// reported through the logger only; callers own stdout.
//
// NewAligner maps the configured backend name onto a concrete Aligner.
package workflow
