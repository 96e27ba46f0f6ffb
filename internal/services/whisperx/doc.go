// Package whisperx force-aligns lyrics to audio with WhisperX's phoneme
// alignment models.
//
// The helper script runs through uvx so WhisperX and its torch stack live in
// an ephemeral environment. It loads the wav2vec2 alignment model for the
// requested language, aligns one segment spanning the whole recording against
// the full lyrics text, and writes segments and words as JSON. Words WhisperX
// could not place (numerals, symbols) arrive without timings and are pinned
// to the end of the preceding word.
package whisperx
