package stablets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lyricalign/internal/alignment"
	"lyricalign/internal/logging"
	"lyricalign/internal/services"
)

const (
	lyricsFileName = "stablets-lyrics.txt"
	resultFileName = "stablets-result.json"
)

// Service aligns text to audio with stable-ts.
type Service struct {
	cfg    Config
	logger *slog.Logger
	run    services.CommandRunner
}

// Option customizes a Service.
type Option func(*Service)

// WithCommandRunner overrides the process runner (used in tests).
func WithCommandRunner(runner services.CommandRunner) Option {
	return func(s *Service) {
		if runner != nil {
			s.run = runner
		}
	}
}

// WithLogger sets the logger that receives helper diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a stable-ts service.
func New(cfg Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg.withDefaults(),
		logger: logging.NewNop(),
		run:    services.RunCommand,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "stable-ts")
	return s
}

// Name identifies the backend.
func (s *Service) Name() string { return BackendName }

// Model returns the configured model variant.
func (s *Service) Model() string { return s.cfg.Model }

// Align runs the helper script and returns the parsed result.
func (s *Service) Align(ctx context.Context, req alignment.Request, progress alignment.ProgressFunc) (alignment.Result, error) {
	if req.AudioPath == "" {
		return alignment.Result{}, services.Wrap(services.ErrConfiguration, "align", BackendName, "audio path required", nil)
	}
	if req.WorkDir == "" {
		return alignment.Result{}, services.Wrap(services.ErrConfiguration, "align", BackendName, "work directory required", nil)
	}
	if err := os.MkdirAll(req.WorkDir, 0o755); err != nil {
		return alignment.Result{}, services.Wrap(services.ErrFileAccess, "align", "ensure work dir", "", err)
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	lyricsPath := filepath.Join(req.WorkDir, lyricsFileName)
	if err := os.WriteFile(lyricsPath, []byte(req.Text), 0o644); err != nil {
		return alignment.Result{}, services.Wrap(services.ErrFileAccess, "align", "stage lyrics", "", err)
	}
	resultPath := filepath.Join(req.WorkDir, resultFileName)
	_ = os.Remove(resultPath)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	tracker := alignment.NewStageTracker(progress, func(line string) {
		s.logger.Debug("helper output", logging.String("line", line))
	})
	cmd := s.buildCommand(req.AudioPath, lyricsPath, resultPath, language)
	cmd.OnStderrLine = tracker.HandleLine

	s.logger.Debug("running aligner helper",
		logging.String("binary", cmd.Name),
		logging.String(logging.FieldModel, s.cfg.Model),
		logging.String("device", s.cfg.Device),
	)
	if err := s.run(ctx, cmd); err != nil {
		return alignment.Result{}, classify(tracker, err)
	}

	result, err := alignment.LoadResult(resultPath)
	if err != nil {
		return alignment.Result{}, services.Wrap(services.ErrAlignment, "align", BackendName, "read helper output", err)
	}
	if result.Language == "" {
		result.Language = language
	}
	return result, nil
}

func (s *Service) buildCommand(audioPath, lyricsPath, resultPath, language string) services.Command {
	scriptArgs := []string{
		"-c", alignScript,
		audioPath,
		lyricsPath,
		resultPath,
		s.cfg.Model,
		language,
		s.cfg.Device,
	}
	if s.cfg.UseUVX {
		args := append([]string{"--from", s.cfg.Package, "python"}, scriptArgs...)
		return services.Command{Name: s.cfg.UVXBinary, Args: args, Env: helperEnv()}
	}
	return services.Command{Name: s.cfg.PythonBinary, Args: scriptArgs, Env: helperEnv()}
}

func helperEnv() []string {
	env := []string{"PYTHONUNBUFFERED=1", "PYTHONIOENCODING=utf-8"}
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	return env
}

func classify(tracker *alignment.StageTracker, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", BackendName, err)
	}
	if !tracker.ModelLoaded() {
		return services.Wrap(services.ErrModelLoad, "load model", BackendName, "", err)
	}
	return services.Wrap(services.ErrAlignment, "align", BackendName, "", err)
}
