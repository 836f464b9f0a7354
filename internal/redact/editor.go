package redact

import (
	"revoice/internal/media/wav"
	"revoice/internal/services"
)

// Editor removes a sample range from an audio artifact, writing the
// result to a new file and leaving the source untouched.
type Editor interface {
	Cut(sourcePath, outPath string, startSec, endSec float64) error
}

// WaveEditor edits mono WAV files directly through the in-process codec.
type WaveEditor struct{}

// Cut writes a copy of sourcePath with the [startSec, endSec) range removed.
func (WaveEditor) Cut(sourcePath, outPath string, startSec, endSec float64) error {
	audio, err := wav.ReadFile(sourcePath)
	if err != nil {
		return services.Wrap(services.ErrConsistency, "redact", "cut", sourcePath, err)
	}
	start := int(startSec * float64(audio.SampleRate))
	end := int(endSec * float64(audio.SampleRate))
	if start < 0 {
		start = 0
	}
	if end > len(audio.Samples) {
		end = len(audio.Samples)
	}
	if start >= end {
		return services.Wrap(services.ErrValidation, "redact", "cut", "empty cut range", nil)
	}
	edited := wav.Audio{
		SampleRate: audio.SampleRate,
		Samples:    append(append([]float64{}, audio.Samples[:start]...), audio.Samples[end:]...),
	}
	if err := wav.WriteFile(outPath, edited); err != nil {
		return services.Wrap(services.ErrConsistency, "redact", "cut", outPath, err)
	}
	return nil
}
