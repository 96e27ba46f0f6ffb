package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lyricalign/internal/aligncache"
	"lyricalign/internal/alignment"
	"lyricalign/internal/config"
	"lyricalign/internal/logging"
	"lyricalign/internal/lyrics"
	"lyricalign/internal/media"
	"lyricalign/internal/preflight"
	"lyricalign/internal/services"
	"lyricalign/internal/workspace"
)

// Cache is the subset of the alignment cache the runner needs.
type Cache interface {
	Get(ctx context.Context, key aligncache.Key) ([]alignment.WordTiming, bool, error)
	Put(ctx context.Context, key aligncache.Key, words []alignment.WordTiming) error
}

// Request names the two inputs of one alignment run.
type Request struct {
	AudioPath  string
	LyricsPath string
}

// Outcome is the flattened alignment plus facts about how it was produced.
type Outcome struct {
	Words    []alignment.WordTiming
	CacheHit bool
	Audio    *media.WAVInfo
	Elapsed  time.Duration
}

// Runner executes the align pipeline for one invocation.
type Runner struct {
	cfg     *config.Config
	aligner alignment.Aligner
	cache   Cache
	logger  *slog.Logger
	exec    services.CommandRunner
	runID   string
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithCache enables result caching.
func WithCache(cache Cache) Option {
	return func(r *Runner) { r.cache = cache }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCommandRunner overrides the process runner used for ffmpeg.
func WithCommandRunner(runner services.CommandRunner) Option {
	return func(r *Runner) {
		if runner != nil {
			r.exec = runner
		}
	}
}

// WithRunID names the run's scratch directory.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// NewRunner constructs a Runner around an aligner backend.
func NewRunner(cfg *config.Config, aligner alignment.Aligner, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		aligner: aligner,
		logger:  logging.NewNop(),
		exec:    services.RunCommand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates inputs, aligns the lyrics to the audio, and returns the
// flattened word timings in aligner order.
func (r *Runner) Run(ctx context.Context, req Request) (Outcome, error) {
	started := time.Now()
	logger := logging.WithContext(ctx, r.logger)

	if err := r.cfg.EnsureDirectories(); err != nil {
		return Outcome{}, services.Wrap(services.ErrFileAccess, "prepare", "directories", "", err)
	}
	if err := r.runPreflightChecks(logger, req); err != nil {
		return Outcome{}, services.Wrap(services.ErrFileAccess, "preflight", "", "", err)
	}

	text, err := lyrics.Read(req.LyricsPath)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrFileAccess, "read lyrics", req.LyricsPath, "", err)
	}

	workspace.CleanStale(r.cfg.Paths.WorkDir, workspace.StaleRunAge, logger)
	run, err := workspace.NewRun(r.cfg.Paths.WorkDir, r.runID)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrFileAccess, "prepare", "workspace", "", err)
	}
	defer func() {
		if cleanupErr := run.Cleanup(); cleanupErr != nil {
			logging.WarnWithContext(logger, "run workspace cleanup failed", "workspace_cleanup",
				logging.String("dir", run.Dir),
				logging.Error(cleanupErr),
				logging.String(logging.FieldImpact, "scratch files remain on disk"),
			)
		}
	}()

	outcome := Outcome{}
	audioPath := req.AudioPath
	if r.cfg.Audio.ConvertToWAV && !media.IsWAV(audioPath) {
		converted := run.Path("input.wav")
		logger.Info("converting audio to wav",
			logging.String("source", audioPath),
			logging.Int("sample_rate", r.cfg.Audio.SampleRate),
		)
		if err := media.ConvertToWAV(ctx, r.exec, r.cfg.Audio.FFmpegBinary, audioPath, converted, r.cfg.Audio.SampleRate); err != nil {
			return Outcome{}, err
		}
		audioPath = converted
	}
	if media.IsWAV(audioPath) {
		// The aligner owns format validation; a header we cannot read is
		// still handed over unchanged.
		if info, err := media.ProbeWAV(audioPath); err != nil {
			logging.WarnWithContext(logger, "wav header not readable", "audio_probe_failed",
				logging.String("audio", audioPath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "audio is passed to the aligner unchecked"),
				logging.String(logging.FieldErrorHint, "if alignment fails, re-encode the file or use --convert"),
			)
		} else {
			outcome.Audio = &info
			logger.Debug("audio probed",
				logging.Duration("duration", info.Duration),
				logging.Int("sample_rate", info.SampleRate),
				logging.Int("channels", info.Channels),
			)
		}
	}

	var key aligncache.Key
	if r.cache != nil {
		key, err = aligncache.NewKey(req.AudioPath, text, r.aligner.Name(), r.aligner.Model(), r.cfg.Aligner.Language)
		if err != nil {
			return Outcome{}, services.Wrap(services.ErrFileAccess, "cache", "hash audio", "", err)
		}
		words, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			logging.WarnWithContext(logger, "alignment cache lookup failed", "cache_lookup_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "alignment runs without the cache"),
			)
		} else if ok {
			progress := r.progressLogger(logger, logging.String("cache", "hit"))
			for _, stage := range []alignment.Stage{alignment.StageLoadingModel, alignment.StageModelLoaded, alignment.StageAligning, alignment.StageAlignmentComplete} {
				progress(stage)
			}
			outcome.Words = words
			outcome.CacheHit = true
			outcome.Elapsed = time.Since(started)
			return outcome, nil
		}
	}

	result, err := r.align(ctx, logger, run, alignment.Request{
		AudioPath: audioPath,
		Text:      text,
		Language:  r.cfg.Aligner.Language,
		WorkDir:   run.Dir,
	})
	if err != nil {
		return Outcome{}, err
	}

	outcome.Words = alignment.Flatten(result)
	outcome.Elapsed = time.Since(started)
	logger.Debug("alignment flattened",
		logging.Int("segments", len(result.Segments)),
		logging.Int("words", len(outcome.Words)),
		logging.Duration("elapsed", outcome.Elapsed),
	)

	if r.cache != nil {
		if err := r.cache.Put(ctx, key, outcome.Words); err != nil {
			logging.WarnWithContext(logger, "alignment cache store failed", "cache_store_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run aligns again"),
			)
		}
	}
	return outcome, nil
}

func (r *Runner) align(ctx context.Context, logger *slog.Logger, run *workspace.Run, req alignment.Request) (alignment.Result, error) {
	lock, err := run.LockModel(ctx, r.aligner.Name(), r.aligner.Model())
	if err != nil {
		return alignment.Result{}, services.Wrap(services.ErrModelLoad, "load model", "lock", "", err)
	}
	defer func() { _ = lock.Release() }()

	result, err := r.aligner.Align(ctx, req, r.progressLogger(logger))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return alignment.Result{}, fmt.Errorf("alignment interrupted: %w", err)
		}
		return alignment.Result{}, err
	}
	return result, nil
}

func (r *Runner) progressLogger(logger *slog.Logger, attrs ...logging.Attr) alignment.ProgressFunc {
	progressLog := logging.NewComponentLogger(logger, "aligner").With(
		logging.String(logging.FieldBackend, r.aligner.Name()),
		logging.String(logging.FieldModel, r.aligner.Model()),
	)
	args := logging.Args(attrs...)
	return func(stage alignment.Stage) {
		progressLog.Info(stage.String(), args...)
	}
}

func (r *Runner) runPreflightChecks(logger *slog.Logger, req Request) error {
	var failures []string
	for _, res := range preflight.CheckInputs(r.cfg, req.AudioPath, req.LyricsPath) {
		if res.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", res.Name),
				logging.String("detail", res.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", res.Name),
			logging.String("detail", res.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "check the path and its permissions"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", res.Name, res.Detail))
	}
	if len(failures) > 0 {
		return fmt.Errorf("%w: %s", preflight.ErrFailed, strings.Join(failures, "; "))
	}
	return nil
}
