package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lyricalign/internal/alignment"
	langpkg "lyricalign/internal/language"
	"lyricalign/internal/logging"
	"lyricalign/internal/services"
)

const (
	lyricsFileName = "whisperx-lyrics.txt"
	resultFileName = "whisperx-result.json"
)

// Service provides WhisperX forced alignment.
type Service struct {
	cfg    Config
	logger *slog.Logger
	run    services.CommandRunner
}

// Option customizes a Service.
type Option func(*Service)

// WithCommandRunner sets a custom command runner (for testing).
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

// New creates a WhisperX service with the given configuration.
func New(cfg Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg.withDefaults(),
		logger: logging.NewNop(),
		run:    services.RunCommand,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "whisperx")
	return s
}

// Name identifies the backend.
func (s *Service) Name() string { return BackendName }

// Model returns the configured alignment model, or "auto" for the language default.
func (s *Service) Model() string { return s.cfg.Model }

// CUDAEnabled reports whether the helper is pinned to a CUDA device.
func (s *Service) CUDAEnabled() bool { return s.cfg.Device == CUDADevice }

// Align runs the WhisperX helper and returns the parsed result.
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
	language := langpkg.ToISO2(req.Language)
	if language == "" {
		language = langpkg.Default
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
	cmd := services.Command{
		Name:         s.cfg.UVXBinary,
		Args:         s.buildArgs(req.AudioPath, lyricsPath, resultPath, language),
		Env:          s.helperEnv(),
		OnStderrLine: tracker.HandleLine,
	}
	s.logger.Debug("running aligner helper",
		logging.String(logging.FieldModel, s.cfg.Model),
		logging.String("device", s.cfg.Device),
		logging.String("language", language),
	)
	if err := s.run(ctx, cmd); err != nil {
		if errors.Is(err, context.Canceled) {
			return alignment.Result{}, fmt.Errorf("%s: %w", BackendName, err)
		}
		if !tracker.ModelLoaded() {
			return alignment.Result{}, services.Wrap(services.ErrModelLoad, "load model", BackendName, "", err)
		}
		return alignment.Result{}, services.Wrap(services.ErrAlignment, "align", BackendName, "", err)
	}

	result, err := LoadResult(resultPath)
	if err != nil {
		return alignment.Result{}, services.Wrap(services.ErrAlignment, "align", BackendName, "read helper output", err)
	}
	if result.Language == "" {
		result.Language = language
	}
	return result, nil
}

// buildArgs constructs the uvx command arguments for the WhisperX helper.
func (s *Service) buildArgs(audioPath, lyricsPath, resultPath, language string) []string {
	args := make([]string, 0, 16)
	if s.CUDAEnabled() {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	}
	args = append(args,
		"--from", s.cfg.Package,
		"python", "-c", alignScript,
		audioPath,
		lyricsPath,
		resultPath,
		language,
		s.cfg.Device,
		s.cfg.Model,
	)
	return args
}

func (s *Service) helperEnv() []string {
	var env []string
	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX checkpoints.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if s.cfg.HFToken != "" {
		env = append(env, "HF_TOKEN="+s.cfg.HFToken)
	}
	return append(env, "PYTHONUNBUFFERED=1", "PYTHONIOENCODING=utf-8")
}

// Word represents a single word with optional timing from WhisperX output.
type Word struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Score *float64 `json:"score"`
}

// Segment represents an aligned segment from WhisperX JSON output.
type Segment struct {
	Text  string   `json:"text"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Words []Word   `json:"words"`
}

type payload struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, "", err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, "", fmt.Errorf("parse whisperx json: %w", err)
	}
	return p.Segments, p.Language, nil
}

// LoadResult loads a WhisperX JSON file and fills in words that came back
// without timings.
func LoadResult(jsonPath string) (alignment.Result, error) {
	segments, language, err := LoadSegments(jsonPath)
	if err != nil {
		return alignment.Result{}, err
	}
	return toResult(segments, language), nil
}

func toResult(segments []Segment, language string) alignment.Result {
	result := alignment.Result{Language: language, Segments: make([]alignment.Segment, 0, len(segments))}
	var cursor float64
	for _, seg := range segments {
		out := alignment.Segment{Text: seg.Text, Start: valueOr(seg.Start, cursor)}
		out.End = valueOr(seg.End, out.Start)
		if seg.Start != nil && *seg.Start > cursor {
			cursor = *seg.Start
		}
		out.Words = make([]alignment.Word, 0, len(seg.Words))
		for _, w := range seg.Words {
			start := valueOr(w.Start, cursor)
			end := valueOr(w.End, start)
			out.Words = append(out.Words, alignment.Word{
				Word:        w.Word,
				Start:       start,
				End:         end,
				Probability: w.Score,
			})
			cursor = end
		}
		result.Segments = append(result.Segments, out)
	}
	return result
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
