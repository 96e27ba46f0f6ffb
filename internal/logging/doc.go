// Package logging assembles the structured slog loggers used across
// lyricalign.
//
// Diagnostics always go to stderr or an injected writer; stdout is reserved
// for the alignment JSON and New refuses it. The console handler prints one
// line per record with the component lifted into the prefix, and the JSON
// handler emits ts/level/msg objects for machine consumption.
package logging
