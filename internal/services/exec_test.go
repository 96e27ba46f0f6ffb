package services_test

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lyricalign/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestRunCommandStreamsStderrLines(t *testing.T) {
	script := writeScript(t, "echo out\necho one >&2\nprintf 'two\\rthree\\n' >&2\n")
	var lines []string
	err := services.RunCommand(context.Background(), services.Command{
		Name:         script,
		OnStderrLine: func(line string) { lines = append(lines, line) },
	})
	if err != nil {
		t.Fatalf("RunCommand returned error: %v", err)
	}
	want := []string{"one", "two", "three"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected stderr lines %v, want %v", lines, want)
	}
}

func TestRunCommandFailureCarriesStderrTail(t *testing.T) {
	script := writeScript(t, "echo 'RuntimeError: model not found' >&2\nexit 3\n")
	err := services.RunCommand(context.Background(), services.Command{Name: script})
	if err == nil {
		t.Fatal("expected error")
	}
	var execErr *services.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %T", err)
	}
	if !strings.Contains(execErr.Stderr, "model not found") {
		t.Fatalf("expected stderr tail, got %q", execErr.Stderr)
	}
}

func TestRunCommandPassesEnv(t *testing.T) {
	script := writeScript(t, "echo \"value=$LYRICALIGN_TEST\" >&2\n")
	var got string
	err := services.RunCommand(context.Background(), services.Command{
		Name:         script,
		Env:          []string{"LYRICALIGN_TEST=42"},
		OnStderrLine: func(line string) { got = line },
	})
	if err != nil {
		t.Fatalf("RunCommand returned error: %v", err)
	}
	if got != "value=42" {
		t.Fatalf("unexpected env echo %q", got)
	}
}

func TestRunCommandTimeout(t *testing.T) {
	script := writeScript(t, "exec sleep 5\n")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := services.RunCommand(ctx, services.Command{Name: script})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestRunCommandMissingBinary(t *testing.T) {
	err := services.RunCommand(context.Background(), services.Command{Name: "clearly-not-present-binary"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestScanTerminalLines(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("a\r\nb\rc\nd"))
	scanner.Split(services.ScanTerminalLines)
	var got []string
	for scanner.Scan() {
		got = append(got, scanner.Text())
	}
	if strings.Join(got, "|") != "a|b|c|d" {
		t.Fatalf("unexpected tokens %v", got)
	}
}
