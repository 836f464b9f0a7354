// Package media wraps the ffmpeg invocations the assembler needs: muxing
// the dubbed master against source video at a timecode offset, and
// exporting a playable MP3 alongside the master WAV.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CommandRunner abstracts process execution so tests can capture the exact
// ffmpeg invocation without spawning anything.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Tool runs ffmpeg operations with a configured binary.
type Tool struct {
	binary string
	runner CommandRunner
}

// NewTool creates an ffmpeg tool. An empty binary falls back to "ffmpeg".
func NewTool(binary string) *Tool {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Tool{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Tool) WithCommandRunner(runner CommandRunner) *Tool {
	t.runner = runner
	return t
}

// MuxRequest describes a video/audio substitution.
type MuxRequest struct {
	// VideoPath is the source media whose video stream is kept.
	VideoPath string
	// AudioPath is the master mix that replaces the source audio.
	AudioPath string
	// OutputPath is where the muxed container is written.
	OutputPath string
	// StartOffsetSec seeks this far into the source video before playback.
	StartOffsetSec float64
	// DurationSec trims the output to the master mix duration. 0 keeps
	// everything ffmpeg produces.
	DurationSec float64
}

// Mux produces an output video that starts the source video at the request
// offset and substitutes its audio track with the provided mix.
func (t *Tool) Mux(ctx context.Context, req MuxRequest) error {
	if req.VideoPath == "" || req.AudioPath == "" || req.OutputPath == "" {
		return fmt.Errorf("mux: video, audio, and output paths are all required")
	}

	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	if req.StartOffsetSec > 0 {
		args = append(args, "-ss", formatSeconds(req.StartOffsetSec))
	}
	args = append(args,
		"-i", req.VideoPath,
		"-i", req.AudioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
	)
	if req.DurationSec > 0 {
		args = append(args, "-t", formatSeconds(req.DurationSec))
	}
	args = append(args, req.OutputPath)

	return t.run(ctx, args...)
}

// ExportMP3 converts a WAV file to MP3 for playback and download.
func (t *Tool) ExportMP3(ctx context.Context, wavPath, mp3Path string) error {
	if wavPath == "" || mp3Path == "" {
		return fmt.Errorf("export mp3: input and output paths are required")
	}
	return t.run(ctx,
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", wavPath,
		"-ab", "320k",
		mp3Path,
	)
}

func (t *Tool) run(ctx context.Context, args ...string) error {
	if t.runner != nil {
		return t.runner(ctx, t.binary, args...)
	}
	cmd := exec.CommandContext(ctx, t.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", t.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
