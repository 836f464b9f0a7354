package deps

import (
	"os"
	"path/filepath"
	"testing"

	"revoice/internal/config"
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
		{Name: "Unconfigured", Command: "   "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Errorf("expected %q to be available: %s", present, results[0].Detail)
	}
	if results[1].Available {
		t.Error("missing binary reported available")
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Errorf("unexpected status for unconfigured command: %+v", results[2])
	}
}

func TestFromConfigListsCollaborators(t *testing.T) {
	cfg := config.Default()
	reqs := FromConfig(&cfg)
	if len(reqs) != 4 {
		t.Fatalf("expected 4 requirements, got %d", len(reqs))
	}
	names := map[string]bool{}
	for _, req := range reqs {
		names[req.Name] = true
	}
	for _, want := range []string{"Synthesizer", "Recognizer", "FFmpeg", "FFprobe"} {
		if !names[want] {
			t.Errorf("missing requirement %s", want)
		}
	}
}

func TestMissing(t *testing.T) {
	statuses := []Status{
		{Name: "A", Available: true},
		{Name: "B", Available: false},
		{Name: "C", Available: false, Optional: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "B" {
		t.Fatalf("expected only B missing, got %+v", missing)
	}
}
