// Package aligncache persists flattened alignment results in SQLite so
// re-running the same audio, lyrics and model skips the aligner entirely.
//
// Entries are keyed by the SHA-256 of the audio bytes, the SHA-256 of the
// lyrics text, and the backend, model and language names. The store is
// opt-in; callers open it only when cache.enabled is set.
package aligncache
