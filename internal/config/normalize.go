package config

import (
	"fmt"
	"os"
	"strings"

	"lyricalign/internal/language"
)

func (c *Config) normalize() error {
	c.normalizeAligner()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAligner() {
	c.Aligner.Backend = strings.ToLower(strings.TrimSpace(c.Aligner.Backend))
	switch c.Aligner.Backend {
	case "":
		c.Aligner.Backend = defaultBackend
	case "stable_ts", "stablets", "stable-whisper":
		c.Aligner.Backend = BackendStableTS
	}
	c.Aligner.Model = strings.TrimSpace(c.Aligner.Model)
	if c.Aligner.Model == "" {
		c.Aligner.Model = defaultModel
	}
	c.Aligner.Language = strings.TrimSpace(c.Aligner.Language)
	if c.Aligner.Language == "" {
		c.Aligner.Language = defaultLanguage
	}
	if iso := language.ToISO2(c.Aligner.Language); iso != "" {
		c.Aligner.Language = iso
	}
	c.Aligner.Device = strings.ToLower(strings.TrimSpace(c.Aligner.Device))
	if c.Aligner.Device == "" {
		c.Aligner.Device = defaultDevice
	}
	c.Aligner.PythonBinary = strings.TrimSpace(c.Aligner.PythonBinary)
	if value, ok := os.LookupEnv("LYRICALIGN_PYTHON"); ok && strings.TrimSpace(value) != "" && (c.Aligner.PythonBinary == "" || c.Aligner.PythonBinary == defaultPythonBinary) {
		c.Aligner.PythonBinary = strings.TrimSpace(value)
	}
	if c.Aligner.PythonBinary == "" {
		c.Aligner.PythonBinary = defaultPythonBinary
	}
	c.Aligner.UVXBinary = strings.TrimSpace(c.Aligner.UVXBinary)
	if c.Aligner.UVXBinary == "" {
		c.Aligner.UVXBinary = defaultUVXBinary
	}
	c.Aligner.StableTSPackage = strings.TrimSpace(c.Aligner.StableTSPackage)
	if c.Aligner.StableTSPackage == "" {
		c.Aligner.StableTSPackage = defaultStableTSPackage
	}
	c.Aligner.WhisperXPackage = strings.TrimSpace(c.Aligner.WhisperXPackage)
	if c.Aligner.WhisperXPackage == "" {
		c.Aligner.WhisperXPackage = defaultWhisperXPackage
	}
	c.Aligner.HFToken = strings.TrimSpace(c.Aligner.HFToken)
	if c.Aligner.HFToken == "" {
		for _, name := range []string{"HUGGING_FACE_HUB_TOKEN", "HF_TOKEN"} {
			if value := strings.TrimSpace(os.Getenv(name)); value != "" {
				c.Aligner.HFToken = value
				break
			}
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = Default().Paths.WorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = Default().Cache.Path
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
