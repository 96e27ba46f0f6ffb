package config

import "path/filepath"

const (
	defaultConfigPath      = "~/.config/lyricalign/config.toml"
	projectConfigName      = "lyricalign.toml"
	defaultBackend         = BackendStableTS
	defaultModel           = "base"
	defaultLanguage        = "en"
	defaultDevice          = DeviceAuto
	defaultPythonBinary    = "python3"
	defaultUVXBinary       = "uvx"
	defaultStableTSPackage = "stable-ts"
	defaultWhisperXPackage = "whisperx"
	defaultFFmpegBinary    = "ffmpeg"
	defaultSampleRate      = 16000
	defaultFPS             = 60
	defaultLogFormat       = LogFormatConsole
	defaultLogLevel        = "info"
)

// Backend identifiers.
const (
	BackendStableTS = "stable-ts"
	BackendWhisperX = "whisperx"
)

// Device identifiers.
const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	root := defaultCacheRoot()
	return Config{
		Aligner: Aligner{
			Backend:         defaultBackend,
			Model:           defaultModel,
			Language:        defaultLanguage,
			Device:          defaultDevice,
			PythonBinary:    defaultPythonBinary,
			UVXBinary:       defaultUVXBinary,
			StableTSPackage: defaultStableTSPackage,
			WhisperXPackage: defaultWhisperXPackage,
		},
		Paths: Paths{
			WorkDir: filepath.Join(root, "work"),
		},
		Audio: Audio{
			FFmpegBinary: defaultFFmpegBinary,
			SampleRate:   defaultSampleRate,
		},
		Cache: Cache{
			Path: filepath.Join(root, "alignments.db"),
		},
		Output: Output{
			FPS: defaultFPS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
