package workflow

import (
	"fmt"
	"log/slog"
	"time"

	"lyricalign/internal/alignment"
	"lyricalign/internal/config"
	"lyricalign/internal/services"
	"lyricalign/internal/services/stablets"
	"lyricalign/internal/services/whisperx"
)

// NewAligner builds the backend selected by cfg.Aligner.Backend.
func NewAligner(cfg *config.Config, logger *slog.Logger, runner services.CommandRunner) (alignment.Aligner, error) {
	timeout := time.Duration(cfg.Timeout()) * time.Second
	switch cfg.Aligner.Backend {
	case config.BackendStableTS, "":
		return stablets.New(stablets.Config{
			Model:        cfg.Aligner.Model,
			Device:       cfg.Aligner.Device,
			PythonBinary: cfg.Aligner.PythonBinary,
			UseUVX:       cfg.Aligner.UseUVX,
			UVXBinary:    cfg.Aligner.UVXBinary,
			Package:      cfg.Aligner.StableTSPackage,
			Timeout:      timeout,
		}, stablets.WithLogger(logger), stablets.WithCommandRunner(runner)), nil
	case config.BackendWhisperX:
		return whisperx.New(whisperx.Config{
			Model:     cfg.Aligner.Model,
			Device:    cfg.Aligner.Device,
			UVXBinary: cfg.Aligner.UVXBinary,
			Package:   cfg.Aligner.WhisperXPackage,
			HFToken:   cfg.Aligner.HFToken,
			Timeout:   timeout,
		}, whisperx.WithLogger(logger), whisperx.WithCommandRunner(runner)), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "config", "backend", fmt.Sprintf("unsupported backend %q", cfg.Aligner.Backend), nil)
	}
}
