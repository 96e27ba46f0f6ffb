package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	stderrTailLines = 20
	maxPartialLine  = 64 * 1024
)

// Command describes a single external process invocation.
type Command struct {
	Name string
	Args []string
	// Env is appended to the current process environment.
	Env []string
	// OnStderrLine receives each stderr line (split on \n or \r) as it arrives.
	OnStderrLine func(line string)
}

// CommandRunner executes a Command. Backends accept a runner so tests can
// substitute a stub for the real process.
type CommandRunner func(ctx context.Context, cmd Command) error

// ExecError reports a failed external command together with the tail of its
// stderr output.
type ExecError struct {
	Name   string
	Err    error
	Stderr string
}

func (e *ExecError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, e.Stderr)
}

func (e *ExecError) Unwrap() error { return e.Err }

// RunCommand is the default CommandRunner. The child's stdout is discarded so
// nothing it prints can reach our stdout.
func RunCommand(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) //nolint:gosec
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	tail := newLineTail(stderrTailLines)
	stderr := &lineWriter{emit: func(line string) {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			return
		}
		tail.add(line)
		if c.OnStderrLine != nil {
			c.OnStderrLine(line)
		}
	}}
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr
	// Grandchildren holding the pipe open must not stall Wait after cancellation.
	cmd.WaitDelay = 5 * time.Second

	err := cmd.Run()
	stderr.Flush()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
			} else {
				err = ctxErr
			}
		}
		return &ExecError{Name: c.Name, Err: err, Stderr: tail.String()}
	}
	return nil
}

// lineWriter splits written bytes into terminal lines.
type lineWriter struct {
	mu   sync.Mutex
	buf  []byte
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		advance, token, _ := ScanTerminalLines(w.buf, false)
		if advance == 0 {
			break
		}
		w.emit(string(token))
		w.buf = w.buf[advance:]
	}
	if len(w.buf) > maxPartialLine {
		w.emit(string(w.buf))
		w.buf = w.buf[:0]
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

// ScanTerminalLines is a bufio.SplitFunc that treats both \n and \r as line
// terminators so progress bars redrawn with carriage returns yield lines.
func ScanTerminalLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance++
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type lineTail struct {
	mu    sync.Mutex
	max   int
	lines []string
}

func newLineTail(max int) *lineTail {
	return &lineTail{max: max}
}

func (t *lineTail) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *lineTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}
