// Package config loads, normalizes, and validates lyricalign configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, loads optional .env files, and honours environment fallbacks
// such as HF_TOKEN and LYRICALIGN_PYTHON. Command-line flags are applied on
// top of the returned Config by the CLI.
package config
