// Package tts wraps the external voice-cloning synthesizer. Like the
// recognizer, the synthesizer is a single expensive model instance bound
// to one device, so calls are serialized inside the service.
package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"revoice/internal/config"
	"revoice/internal/services"
)

// CommandRunner abstracts process execution (for testing).
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Request describes one synthesis call.
type Request struct {
	// Text is the utterance content to speak.
	Text string
	// VoiceDir holds the speaker's reference audio samples.
	VoiceDir string
	// OutputPath is where the synthesized mono WAV is written.
	OutputPath string
	// Reread requests seed variation regardless of the configured
	// deterministic-seed flag, so a re-synthesis can differ from the
	// take it replaces.
	Reread bool
}

// Synthesizer is the synthesis contract the pipeline consumes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) error
}

// Config carries synthesizer settings resolved from application config.
type Config struct {
	Command           string
	SampleRate        int
	Candidates        int
	DeterministicSeed bool
	TimeoutSeconds    int
}

// FromConfig extracts synthesizer settings from the application config.
func FromConfig(cfg *config.Config) Config {
	if cfg == nil {
		return Config{}
	}
	return Config{
		Command:           cfg.TTS.Command,
		SampleRate:        cfg.TTS.SampleRate,
		Candidates:        cfg.TTS.Candidates,
		DeterministicSeed: cfg.TTS.DeterministicSeed,
		TimeoutSeconds:    cfg.TTS.TimeoutSeconds,
	}
}

// Service synthesizes speech through an external command.
type Service struct {
	cfg    Config
	mu     sync.Mutex
	runner CommandRunner
}

// NewService creates a synthesizer service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) *Service {
	s.runner = runner
	return s
}

// Synthesize generates speech for one utterance and writes it to the
// request's output path. Calls are serialized; a concurrent caller blocks
// until the model is free.
func (s *Service) Synthesize(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return services.Wrap(services.ErrValidation, "tts", "synthesize", "text required", nil)
	}
	if req.VoiceDir == "" || req.OutputPath == "" {
		return services.Wrap(services.ErrValidation, "tts", "synthesize", "voice dir and output path required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	args := []string{
		"--text", req.Text,
		"--voice-dir", req.VoiceDir,
		"--out", req.OutputPath,
		"--sample-rate", strconv.Itoa(s.cfg.SampleRate),
		"--candidates", strconv.Itoa(s.cfg.Candidates),
	}
	if s.cfg.DeterministicSeed && !req.Reread {
		args = append(args, "--deterministic-seed")
	}

	if err := s.run(ctx, s.cfg.Command, args...); err != nil {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrTimeout, "tts", "synthesize", req.OutputPath, ctx.Err())
		}
		return services.Wrap(services.ErrCollaborator, "tts", "synthesize", req.OutputPath, err)
	}

	// An exit code of zero with no artifact is still a failed synthesis.
	if info, err := os.Stat(req.OutputPath); err != nil || info.Size() == 0 {
		return services.Wrap(services.ErrCollaborator, "tts", "synthesize",
			fmt.Sprintf("synthesizer produced no audio at %s", req.OutputPath), nil)
	}
	return nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.runner != nil {
		return s.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
