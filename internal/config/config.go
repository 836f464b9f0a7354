package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for persisted artifacts.
type Paths struct {
	// DataDir is the root under which program and speaker artifacts live.
	DataDir string `toml:"data_dir"`
	// LogDir holds the daemon log and the SQLite database.
	LogDir string `toml:"log_dir"`
}

// TTS contains configuration for the voice-cloning synthesis collaborator.
type TTS struct {
	// Command is the external synthesizer executable.
	Command string `toml:"command"`
	// SampleRate is the synthesis output sample rate in Hz.
	SampleRate int `toml:"sample_rate"`
	// Candidates is the number of synthesis candidates requested per call.
	Candidates int `toml:"candidates"`
	// DeterministicSeed pins the synthesis seed for reproducible output.
	// Rereads always leave the seed free in favour of variation.
	DeterministicSeed bool `toml:"deterministic_seed"`
	// TimeoutSeconds bounds a single synthesis call. 0 disables the deadline.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// ASR contains configuration for the speech-recognition collaborator.
type ASR struct {
	// Command is the external recognizer executable.
	Command string `toml:"command"`
	// Model selects the recognizer model size.
	Model string `toml:"model"`
	// SampleRate is the rate audio is resampled to before recognition.
	SampleRate int `toml:"sample_rate"`
	// CUDAEnabled selects the GPU device when available.
	CUDAEnabled bool `toml:"cuda_enabled"`
	// TimeoutSeconds bounds a single transcription call. 0 disables the deadline.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Review contains configuration for the human review queue.
type Review struct {
	// ScoreThreshold surfaces utterances scoring strictly below it.
	// Values <= 0 disable filtering and return the full program.
	ScoreThreshold float64 `toml:"score_threshold"`
}

// Media contains configuration for ffmpeg-based mux and export steps.
type Media struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	// LeadInSeconds pads the video start offset when muxing the dubbed
	// audio against source video.
	LeadInSeconds float64 `toml:"lead_in_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for revoice.
//
// Configuration sections by subsystem:
//   - Paths: artifact data root and log/database directory
//   - TTS: synthesis collaborator command and parameters
//   - ASR: recognition collaborator command and parameters
//   - Review: score threshold for the review queue
//   - Media: ffmpeg/ffprobe binaries and mux lead-in
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	TTS     TTS     `toml:"tts"`
	ASR     ASR     `toml:"asr"`
	Review  Review  `toml:"review"`
	Media   Media   `toml:"media"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/revoice/config.toml")
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was actually found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("revoice.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required before any pipeline
// work can run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves a user-supplied path, expanding a leading ~ and
// making the result absolute.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
