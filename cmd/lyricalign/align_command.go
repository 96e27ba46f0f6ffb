package main

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lyricalign/internal/aligncache"
	"lyricalign/internal/alignment"
	"lyricalign/internal/fileutil"
	"lyricalign/internal/language"
	"lyricalign/internal/logging"
	"lyricalign/internal/services"
	"lyricalign/internal/workflow"
)

func runAlign(cmd *cobra.Command, ctx *commandContext, audioPath, lyricsPath string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runCtx := services.WithRunID(cmd.Context(), runID)
	logger = logging.WithContext(runCtx, logger)
	logger.Debug("alignment requested",
		logging.String("audio", audioPath),
		logging.String("lyrics", lyricsPath),
		logging.String(logging.FieldBackend, cfg.Aligner.Backend),
		logging.String(logging.FieldModel, cfg.Aligner.Model),
		logging.String("language", language.DisplayName(cfg.Aligner.Language)),
		logging.String("config", ctx.configPath),
	)

	aligner, err := workflow.NewAligner(cfg, logger, nil)
	if err != nil {
		return err
	}
	opts := []workflow.Option{workflow.WithLogger(logger), workflow.WithRunID(runID)}
	if cfg.Cache.Enabled {
		store, err := aligncache.Open(runCtx, cfg.Cache.Path)
		if err != nil {
			logging.WarnWithContext(logger, "alignment cache unavailable", "cache_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "alignment runs without the cache"),
				logging.String(logging.FieldErrorHint, "run `lyricalign cache clear` or delete "+cfg.Cache.Path),
			)
		} else {
			defer store.Close()
			opts = append(opts, workflow.WithCache(store))
		}
	}

	outcome, err := workflow.NewRunner(cfg, aligner, opts...).Run(runCtx, workflow.Request{
		AudioPath:  audioPath,
		LyricsPath: lyricsPath,
	})
	if err != nil {
		logger.Debug("alignment failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
		)
		return err
	}

	if path := ctx.align.framesOut; path != "" {
		if err := writeFrames(path, outcome.Words, cfg.Output.FPS); err != nil {
			return err
		}
		logger.Debug("frame timings written", logging.String("path", path), logging.Float64("fps", cfg.Output.FPS))
	}

	// Encode fully before touching stdout so a failure never leaves partial JSON.
	var buf bytes.Buffer
	if err := alignment.Encode(&buf, outcome.Words); err != nil {
		return fmt.Errorf("encode word timings: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write word timings: %w", err)
	}
	logger.Debug("alignment finished",
		logging.Int("words", len(outcome.Words)),
		logging.Bool("cache_hit", outcome.CacheHit),
		logging.Duration("elapsed", outcome.Elapsed),
	)
	return nil
}

func writeFrames(path string, words []alignment.WordTiming, fps float64) error {
	var buf bytes.Buffer
	if err := alignment.EncodeFrames(&buf, alignment.WithFrames(words, fps)); err != nil {
		return fmt.Errorf("encode frame timings: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write frame timings: %w", err)
	}
	return nil
}
