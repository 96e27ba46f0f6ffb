package services_test

import (
	"errors"
	"strings"
	"testing"

	"lyricalign/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrAlignment, "stable-ts", "align", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrAlignment) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"stable-ts", "align", "failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrModelLoad, "x", "", "", nil), "model_load"},
		{services.Wrap(services.ErrFileAccess, "x", "", "", nil), "file_access"},
		{services.Wrap(services.ErrAlignment, "x", "", "", nil), "alignment"},
		{services.Wrap(services.ErrConfiguration, "x", "", "", nil), "configuration"},
		{services.Wrap(services.ErrAlignment, "x", "", "", services.ErrTimeout), "timeout"},
		{errors.New("plain"), "unknown"},
	}
	for _, tt := range tests {
		if got := services.Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
