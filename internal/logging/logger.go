package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"lyricalign/internal/config"
)

// ErrStdoutReserved is returned when a logger is pointed at stdout.
var ErrStdoutReserved = errors.New("log output: stdout is reserved for alignment output")

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives log lines; nil means os.Stderr.
	Writer io.Writer
	// Color forces ANSI level colours on or off; nil detects a terminal.
	Color *bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if f, ok := w.(*os.File); ok && f == os.Stdout {
		return nil, ErrStdoutReserved
	}

	level := new(slog.LevelVar)
	level.Set(parseLevel(opts.Level))
	addSource := level.Level() <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", config.LogFormatConsole:
		color := isTerminal(w)
		if opts.Color != nil {
			color = *opts.Color
		}
		return slog.New(newConsoleHandler(w, level, addSource, color)), nil
	case config.LogFormatJSON:
		return slog.New(newJSONHandler(w, level, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig builds the logger described by cfg.Logging, writing to w.
func NewFromConfig(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Writer: w})
	}
	return New(Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
