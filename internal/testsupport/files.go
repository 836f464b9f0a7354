package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"revoice/internal/media/wav"
)

// WriteTone writes a mono sine-wave WAV of the given duration and returns
// its sample count. Frequency varies with the ordinal so distinct
// utterances have distinct content.
func WriteTone(t testing.TB, path string, sampleRate int, durationSec float64, ordinal int) int {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	n := int(durationSec * float64(sampleRate))
	audio := wav.Audio{SampleRate: sampleRate, Samples: make([]float64, n)}
	freq := 220.0 * float64(ordinal+1)
	for i := range audio.Samples {
		audio.Samples[i] = 0.4 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	if err := wav.WriteFile(path, audio); err != nil {
		t.Fatalf("write tone %s: %v", path, err)
	}
	return n
}

// WriteSilence writes a zero-sample WAV of the given duration.
func WriteSilence(t testing.TB, path string, sampleRate int, durationSec float64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	n := int(durationSec * float64(sampleRate))
	if err := wav.WriteFile(path, wav.Silence(sampleRate, n)); err != nil {
		t.Fatalf("write silence %s: %v", path, err)
	}
}
