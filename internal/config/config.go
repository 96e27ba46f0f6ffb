package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Aligner selects and tunes the external alignment backend.
type Aligner struct {
	Backend         string `toml:"backend" json:"backend"`
	Model           string `toml:"model" json:"model"`
	Language        string `toml:"language" json:"language"`
	Device          string `toml:"device" json:"device"`
	PythonBinary    string `toml:"python_binary" json:"python_binary"`
	UVXBinary       string `toml:"uvx_binary" json:"uvx_binary"`
	UseUVX          bool   `toml:"use_uvx" json:"use_uvx"`
	StableTSPackage string `toml:"stable_ts_package" json:"stable_ts_package"`
	WhisperXPackage string `toml:"whisperx_package" json:"whisperx_package"`
	HFToken         string `toml:"hf_token" json:"hf_token"`
	TimeoutSeconds  int    `toml:"timeout_seconds" json:"timeout_seconds"`
}

// Paths contains working directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir" json:"work_dir"`
}

// Audio contains ffmpeg and input conversion settings.
type Audio struct {
	FFmpegBinary string `toml:"ffmpeg_binary" json:"ffmpeg_binary"`
	ConvertToWAV bool   `toml:"convert_to_wav" json:"convert_to_wav"`
	SampleRate   int    `toml:"sample_rate" json:"sample_rate"`
}

// Cache contains settings for the alignment result cache.
type Cache struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Path    string `toml:"path" json:"path"`
}

// Output contains settings for the optional frame-enriched file.
type Output struct {
	FPS float64 `toml:"fps" json:"fps"`
}

// Logging contains configuration for diagnostic output on stderr.
type Logging struct {
	Format string `toml:"format" json:"format"`
	Level  string `toml:"level" json:"level"`
}

// Config encapsulates all configuration values for lyricalign.
type Config struct {
	Aligner Aligner `toml:"aligner" json:"aligner"`
	Paths   Paths   `toml:"paths" json:"paths"`
	Audio   Audio   `toml:"audio" json:"audio"`
	Cache   Cache   `toml:"cache" json:"cache"`
	Output  Output  `toml:"output" json:"output"`
	Logging Logging `toml:"logging" json:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults apply. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := loadDotEnv(filepath.Dir(resolvedPath)); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// loadDotEnv populates the environment from ./.env and <configDir>/.env.
// Variables already present in the environment win.
func loadDotEnv(configDir string) error {
	candidates := []string{".env"}
	if configDir != "" && configDir != "." {
		candidates = append(candidates, filepath.Join(configDir, ".env"))
	}
	var present []string
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			present = append(present, abs)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// EnsureDirectories creates the work directory and the cache parent directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.WorkDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.WorkDir, err)
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) != "" {
		dir := filepath.Dir(c.Cache.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheRoot() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "lyricalign")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/lyricalign"
	}
	return filepath.Join(home, ".cache", "lyricalign")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Timeout returns the aligner timeout in seconds; zero means none.
func (c *Config) Timeout() int {
	if c.Aligner.TimeoutSeconds < 0 {
		return 0
	}
	return c.Aligner.TimeoutSeconds
}
