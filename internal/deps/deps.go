// Package deps checks that the external collaborators the pipeline shells
// out to are actually installed before any work starts.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"revoice/internal/config"
)

// Requirement defines an external binary revoice relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// FromConfig lists the collaborator binaries the configuration points at.
func FromConfig(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	return []Requirement{
		{Name: "Synthesizer", Command: cfg.TTS.Command, Description: "Voice-cloning synthesis"},
		{Name: "Recognizer", Command: cfg.ASR.Command, Description: "Round-trip verification"},
		{Name: "FFmpeg", Command: cfg.Media.FFmpegBinary, Description: "Mux and MP3 export"},
		{Name: "FFprobe", Command: cfg.Media.FFprobeBinary, Description: "Source media inspection"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing filters statuses down to required dependencies that are absent.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
