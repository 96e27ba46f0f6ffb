package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Path != present {
		t.Fatalf("expected resolved path %q, got %q", present, results[0].Path)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
}

func TestCheckBinariesResolvesFromPath(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "python3")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	results := CheckBinaries([]Requirement{{Name: "Python", Command: "python3"}})
	if !results[0].Available || results[0].Path != stub {
		t.Fatalf("expected python3 to resolve to %q, got %#v", stub, results[0])
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "ok"}, Available: true},
		{Requirement: Requirement{Name: "optional", Optional: true}},
		{Requirement: Requirement{Name: "required"}},
		{Requirement: Requirement{Name: "also required"}},
	}
	missing := MissingRequired(statuses)
	names := Names(missing)
	if len(names) != 2 || names[0] != "required" || names[1] != "also required" {
		t.Fatalf("unexpected missing list: %v", names)
	}
}

func TestCheckTrimsRequirement(t *testing.T) {
	status := Check(Requirement{Name: "FFmpeg", Command: "  clearly-not-present-binary ", Description: " transcode ", Optional: true})
	if status.Available || status.Command != "clearly-not-present-binary" || status.Description != "transcode" {
		t.Fatalf("unexpected status %#v", status)
	}
	if !status.Optional {
		t.Fatal("expected optional flag to carry over")
	}
}
