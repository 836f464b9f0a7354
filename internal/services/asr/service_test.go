package asr_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"revoice/internal/services"
	"revoice/internal/services/asr"
)

const sampleOutput = `{
  "language": "en",
  "segments": [
    {"text": " The cat sat", "start": 0.0, "end": 1.0,
     "words": [{"word": "The", "start": 0.0, "end": 0.3},
               {"word": "cat", "start": 0.3, "end": 0.6},
               {"word": "sat", "start": 0.6, "end": 1.0}]},
    {"text": "on the mat. ", "start": 1.0, "end": 2.0,
     "words": [{"word": "on", "start": 1.0, "end": 1.2},
               {"word": "the", "start": 1.2, "end": 1.5},
               {"word": "mat.", "start": 1.5, "end": 2.0}]}
  ]
}`

func newStubService(t *testing.T, audioPath string) *asr.Service {
	t.Helper()
	svc := asr.NewService(asr.Config{Command: "whisper", Model: "medium"})
	return svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		jsonPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".json"
		return os.WriteFile(jsonPath, []byte(sampleOutput), 0o644)
	})
}

func TestTranscribeParsesOutput(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "0.wav")
	svc := newStubService(t, audioPath)

	transcript, err := svc.Transcribe(context.Background(), audioPath, "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if transcript.Text != "The cat sat on the mat." {
		t.Errorf("Text = %q", transcript.Text)
	}
	if transcript.Language != "en" {
		t.Errorf("Language = %q", transcript.Language)
	}
	if len(transcript.Words) != 6 {
		t.Errorf("expected 6 words, got %d", len(transcript.Words))
	}
}

func TestTranscribePassesLanguageHint(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "0.wav")
	var captured []string
	svc := asr.NewService(asr.Config{Command: "whisper", Model: "medium", SampleRate: 16000}).
		WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			captured = args
			jsonPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".json"
			return os.WriteFile(jsonPath, []byte(sampleOutput), 0o644)
		})

	if _, err := svc.Transcribe(context.Background(), audioPath, "uk"); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	joined := strings.Join(captured, " ")
	if !strings.Contains(joined, "--language uk") {
		t.Errorf("expected language hint in args %q", joined)
	}
	if !strings.Contains(joined, "--sample-rate 16000") {
		t.Errorf("expected recognition sample rate in args %q", joined)
	}
}

func TestTranscribeCollaboratorFailure(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "0.wav")
	svc := asr.NewService(asr.Config{Command: "whisper", Model: "medium"}).
		WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			return errors.New("model exploded")
		})

	_, err := svc.Transcribe(context.Background(), audioPath, "")
	if !errors.Is(err, services.ErrCollaborator) {
		t.Fatalf("expected collaborator failure, got %v", err)
	}
}

func TestTranscribeRequiresPath(t *testing.T) {
	svc := asr.NewService(asr.Config{Command: "whisper"})
	if _, err := svc.Transcribe(context.Background(), "  ", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranscribeSerializesCalls(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "0.wav")
	var inFlight, maxInFlight int
	var mu sync.Mutex

	svc := asr.NewService(asr.Config{Command: "whisper", Model: "medium"}).
		WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			jsonPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".json"
			err := os.WriteFile(jsonPath, []byte(sampleOutput), 0o644)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return err
		})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Transcribe(context.Background(), audioPath, "")
		}()
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Fatalf("expected single-flight access to the model, saw %d concurrent calls", maxInFlight)
	}
}
