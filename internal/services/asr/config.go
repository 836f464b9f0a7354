package asr

import "revoice/internal/config"

// Config carries recognizer settings resolved from application config.
type Config struct {
	// Command is the recognizer executable.
	Command string
	// Model selects the recognizer model size.
	Model string
	// SampleRate is the rate audio is resampled to before recognition.
	SampleRate int
	// CUDAEnabled selects the GPU device when available.
	CUDAEnabled bool
	// TimeoutSeconds bounds one transcription call. 0 disables the deadline.
	TimeoutSeconds int
}

// FromConfig extracts recognizer settings from the application config.
func FromConfig(cfg *config.Config) Config {
	if cfg == nil {
		return Config{}
	}
	return Config{
		Command:        cfg.ASR.Command,
		Model:          cfg.ASR.Model,
		SampleRate:     cfg.ASR.SampleRate,
		CUDAEnabled:    cfg.ASR.CUDAEnabled,
		TimeoutSeconds: cfg.ASR.TimeoutSeconds,
	}
}
