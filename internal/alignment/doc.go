// Package alignment holds the data model shared by every aligner backend:
// the segments-of-words result an external model produces, the flat
// WordTiming sequence lyricalign emits, and the JSON codecs for both.
//
// Word text is carried verbatim. Whisper tokenizers usually attach a leading
// space to each word and downstream consumers rebuild running text from it,
// so nothing in this package trims, re-sorts, or validates timings.
package alignment
