// Package asr wraps the external speech-recognition collaborator. The
// recognizer holds multi-gigabyte weights on one compute device, so every
// call is serialized through the service's internal mutex; callers never
// coordinate access themselves.
package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"revoice/internal/services"
)

// CommandRunner abstracts process execution (for testing).
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Word is a single recognized word with timing.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is one recognized span from the recognizer's JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// Transcript is the result of one transcription call.
type Transcript struct {
	Text     string
	Language string
	Words    []Word
}

type payload struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Transcriber is the recognizer contract the verification ledger consumes.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, languageHint string) (Transcript, error)
}

// Service provides transcription through an external recognizer command.
type Service struct {
	cfg    Config
	mu     sync.Mutex
	runner CommandRunner
}

// NewService creates a recognizer service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) *Service {
	s.runner = runner
	return s
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Transcribe runs the recognizer on an audio file. An empty languageHint
// lets the recognizer detect the language itself. Calls are serialized;
// a concurrent caller blocks until the model is free.
func (s *Service) Transcribe(ctx context.Context, audioPath, languageHint string) (Transcript, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Transcript{}, services.Wrap(services.ErrValidation, "asr", "transcribe", "audio path required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	outputDir := filepath.Dir(audioPath)
	args := s.buildArgs(audioPath, outputDir, languageHint)
	if err := s.run(ctx, s.cfg.Command, args...); err != nil {
		if ctx.Err() != nil {
			return Transcript{}, services.Wrap(services.ErrTimeout, "asr", "transcribe", audioPath, ctx.Err())
		}
		return Transcript{}, services.Wrap(services.ErrCollaborator, "asr", "transcribe", audioPath, err)
	}

	jsonPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".json"
	transcript, err := loadTranscript(jsonPath)
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrCollaborator, "asr", "parse output", jsonPath, err)
	}
	return transcript, nil
}

func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := []string{
		source,
		"--model", s.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--word_timestamps", "True",
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	if s.cfg.SampleRate > 0 {
		args = append(args, "--sample-rate", strconv.Itoa(s.cfg.SampleRate))
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", "cuda")
	} else {
		args = append(args, "--device", "cpu")
	}
	return args
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

func loadTranscript(jsonPath string) (Transcript, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Transcript{}, err
	}
	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Transcript{}, fmt.Errorf("parse recognizer json: %w", err)
	}

	transcript := Transcript{Language: decoded.Language}
	var parts []string
	for _, seg := range decoded.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
		transcript.Words = append(transcript.Words, seg.Words...)
	}
	transcript.Text = strings.Join(parts, " ")
	return transcript, nil
}
