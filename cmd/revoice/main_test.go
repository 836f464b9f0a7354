package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	svc "revoice/internal/services"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[tts]
sample_rate = 8000

[asr]
sample_rate = 8000
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitCommand(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "revoice.toml")

	out, err := runCommand(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output should mention target path: %q", out)
	}
	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(raw), "[tts]") {
		t.Error("sample config missing expected sections")
	}

	if _, err := runCommand(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite must fail")
	}
	if _, err := runCommand(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init --overwrite: %v", err)
	}
}

func TestProjectSpeakerProgramFlow(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, err := runCommand(t, configPath, "project", "create", "My Film")
	if err != nil {
		t.Fatalf("project create: %v", err)
	}
	if !strings.Contains(out, "Project 1 created: My Film") {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = runCommand(t, configPath, "speaker", "add", "1", "alice")
	if err != nil {
		t.Fatalf("speaker add: %v", err)
	}
	if !strings.Contains(out, "alice") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(base, "data", "speakers", "1")); err != nil {
		t.Errorf("speaker dir not created: %v", err)
	}

	scriptPath := filepath.Join(base, "script.txt")
	if err := os.WriteFile(scriptPath, []byte("{alice}\nHello there.\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	out, err = runCommand(t, configPath, "program", "create", "1", "uk", "--script", scriptPath)
	if err != nil {
		t.Fatalf("program create: %v", err)
	}
	if !strings.Contains(out, "Program 1 created (uk)") {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = runCommand(t, configPath, "score", "1")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !strings.Contains(out, "0 utterances, mean score 0.000") {
		t.Errorf("empty program must score 0.000: %q", out)
	}
}

func TestProgramCreateRejectsBadScript(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	if _, err := runCommand(t, configPath, "project", "create", "My Film"); err != nil {
		t.Fatalf("project create: %v", err)
	}
	scriptPath := filepath.Join(base, "bad.txt")
	if err := os.WriteFile(scriptPath, []byte("no speaker markers here"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := runCommand(t, configPath, "program", "create", "1", "uk", "--script", scriptPath); err == nil {
		t.Fatal("malformed script must be rejected")
	}
}

func TestReviewCommandJSON(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	if _, err := runCommand(t, configPath, "project", "create", "My Film"); err != nil {
		t.Fatalf("project create: %v", err)
	}
	scriptPath := filepath.Join(base, "script.txt")
	if err := os.WriteFile(scriptPath, []byte("{alice}\nHello.\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := runCommand(t, configPath, "speaker", "add", "1", "alice"); err != nil {
		t.Fatalf("speaker add: %v", err)
	}
	if _, err := runCommand(t, configPath, "program", "create", "1", "uk", "--script", scriptPath); err != nil {
		t.Fatalf("program create: %v", err)
	}

	out, err := runCommand(t, configPath, "review", "1", "--json")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	var entries []reviewEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("review output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 0 {
		t.Fatalf("unsynthesized program has nothing to review, got %d entries", len(entries))
	}
}

func TestInvalidIDs(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	for _, args := range [][]string{
		{"synth", "zero"},
		{"score", "-1"},
		{"assemble", "abc"},
		{"reread", "1", "-3"},
	} {
		if _, err := runCommand(t, configPath, args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{svc.Wrap(svc.ErrNotFound, "store", "get", "program 7", nil), 2},
		{svc.Wrap(svc.ErrValidation, "script", "parse", "empty", nil), 2},
		{svc.Wrap(svc.ErrAlreadyCompleted, "pipeline", "synthesize", "program 1", nil), 2},
		{svc.Wrap(svc.ErrCollaborator, "asr", "transcribe", "a.wav", nil), 1},
		{svc.Wrap(svc.ErrConsistency, "timeline", "assemble", "tracks", nil), 1},
		{fmt.Errorf("flag parse"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
