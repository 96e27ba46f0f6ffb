package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"lyricalign/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAligner(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAligner() error {
	switch c.Aligner.Backend {
	case BackendStableTS, BackendWhisperX:
	default:
		return fmt.Errorf("aligner.backend: unsupported value %q (want %s or %s)", c.Aligner.Backend, BackendStableTS, BackendWhisperX)
	}
	if strings.TrimSpace(c.Aligner.Model) == "" {
		return errors.New("aligner.model must be set")
	}
	if language.ToISO2(c.Aligner.Language) == "" {
		return fmt.Errorf("aligner.language: unsupported language %q", c.Aligner.Language)
	}
	switch c.Aligner.Device {
	case DeviceAuto, DeviceCPU, DeviceCUDA:
	default:
		return fmt.Errorf("aligner.device: unsupported value %q", c.Aligner.Device)
	}
	if c.Aligner.TimeoutSeconds < 0 {
		return errors.New("aligner.timeout_seconds must be zero or positive")
	}
	if c.Aligner.Backend == BackendStableTS && !c.Aligner.UseUVX && strings.TrimSpace(c.Aligner.PythonBinary) == "" {
		return errors.New("aligner.python_binary must be set when use_uvx is false")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if strings.TrimSpace(c.Audio.FFmpegBinary) == "" {
		return errors.New("audio.ffmpeg_binary must be set")
	}
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if fps := c.Output.FPS; math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return fmt.Errorf("output.fps must be a positive number, got %v", fps)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
