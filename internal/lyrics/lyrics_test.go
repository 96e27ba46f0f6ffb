package lyrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadKeepsTextVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics.txt")
	content := "hello world\n  naïve café\r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lyrics: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got != content {
		t.Fatalf("Read = %q, want %q", got, content)
	}
}

func TestDecodeStripsBOM(t *testing.T) {
	got, err := Decode(strings.NewReader("\ufeffhello world"))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("Decode = %q, want BOM stripped", got)
	}
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	_, err := Decode(strings.NewReader("caf\xe9"))
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestDecodeRejectsEmpty(t *testing.T) {
	_, err := Decode(strings.NewReader(" \n\t"))
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
