// Package main hosts the lyricalign CLI entrypoint and command graph.
//
// The root command force-aligns a lyrics file against an audio file and
// prints the per-word timings as a JSON array on stdout. Everything else the
// process says (progress, diagnostics, errors) goes to stderr, so stdout can
// be piped straight into another tool. Subcommands cover dependency checks,
// configuration scaffolding, and alignment cache maintenance.
package main
