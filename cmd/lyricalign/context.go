package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"lyricalign/internal/config"
	"lyricalign/internal/language"
	"lyricalign/internal/logging"
)

// globalFlags are bound on the root command and shared by every subcommand.
type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
}

// alignFlags override config values for one alignment run.
type alignFlags struct {
	model     string
	language  string
	backend   string
	device    string
	convert   bool
	noCache   bool
	fps       float64
	framesOut string
}

type commandContext struct {
	global *globalFlags
	align  *alignFlags
	cmd    *cobra.Command

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(global *globalFlags, align *alignFlags) *commandContext {
	return &commandContext{global: global, align: align}
}

// ensureConfig loads the config once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.global.config))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if c.global.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(c.global.logLevel))
	}
	if c.global.logFormat != "" {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(c.global.logFormat))
	}
	if c.align != nil && c.cmd != nil {
		flags := c.cmd.Flags()
		if flags.Changed("model") {
			cfg.Aligner.Model = strings.TrimSpace(c.align.model)
		}
		if flags.Changed("language") {
			code := language.ToISO2(c.align.language)
			if code == "" {
				return fmt.Errorf("unsupported language %q", c.align.language)
			}
			cfg.Aligner.Language = code
		}
		if flags.Changed("backend") {
			cfg.Aligner.Backend = strings.ToLower(strings.TrimSpace(c.align.backend))
		}
		if flags.Changed("device") {
			cfg.Aligner.Device = strings.ToLower(strings.TrimSpace(c.align.device))
		}
		if c.align.convert {
			cfg.Audio.ConvertToWAV = true
		}
		if c.align.noCache {
			cfg.Cache.Enabled = false
		}
		if flags.Changed("fps") {
			cfg.Output.FPS = c.align.fps
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// logger builds the stderr logger for the running command.
func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
