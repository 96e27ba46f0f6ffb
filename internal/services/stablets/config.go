package stablets

import "time"

// Config captures runtime settings for stable-ts alignment.
type Config struct {
	// Model is the Whisper model variant to load (e.g. "base", "large-v3").
	Model string
	// Device is "auto", "cpu" or "cuda". Auto lets stable-ts decide.
	Device string
	// PythonBinary runs the helper when UseUVX is false.
	PythonBinary string
	// UseUVX runs the helper in an ephemeral environment via uvx.
	UseUVX    bool
	UVXBinary string
	// Package is the pip requirement uvx installs (e.g. "stable-ts==2.17.3").
	Package string
	// Timeout bounds the whole helper run; zero means no limit.
	Timeout time.Duration
}

// Defaults applied when Config fields are empty.
const (
	BackendName    = "stable-ts"
	DefaultModel   = "base"
	DefaultPython  = "python3"
	DefaultUVX     = "uvx"
	DefaultPackage = "stable-ts"
	DeviceAuto     = "auto"
)

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Device == "" {
		c.Device = DeviceAuto
	}
	if c.PythonBinary == "" {
		c.PythonBinary = DefaultPython
	}
	if c.UVXBinary == "" {
		c.UVXBinary = DefaultUVX
	}
	if c.Package == "" {
		c.Package = DefaultPackage
	}
	return c
}
