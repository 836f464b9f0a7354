// Package artifacts builds every on-disk path the pipeline touches. No
// other package composes artifact paths itself, so the filesystem layout
// has exactly one owner and components never special-case directories.
//
// Layout under the data root:
//
//	programs/<program-id>/<ordinal>.wav        one artifact per utterance
//	programs/<program-id>/combined/            assembly deliverables
//	programs/<program-id>/staging/             candidate repaired waveforms
//	speakers/<speaker-id>/                     voice reference samples
package artifacts

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"lukechampine.com/blake3"

	"revoice/internal/textutil"
)

// Layout resolves artifact paths under a single data root.
type Layout struct {
	root string
}

// NewLayout creates a layout rooted at dataDir.
func NewLayout(dataDir string) Layout {
	return Layout{root: dataDir}
}

// Root returns the data root directory.
func (l Layout) Root() string { return l.root }

// ProgramDir returns the directory holding one program's utterance audio.
func (l Layout) ProgramDir(programID int64) string {
	return filepath.Join(l.root, "programs", fmt.Sprintf("%d", programID))
}

// UtterancePath returns the audio artifact path for an utterance, named by
// its ordinal position within the program.
func (l Layout) UtterancePath(programID int64, ordinal int) string {
	return filepath.Join(l.ProgramDir(programID), fmt.Sprintf("%d.wav", ordinal))
}

// CombinedDir returns the directory for assembly deliverables.
func (l Layout) CombinedDir(programID int64) string {
	return filepath.Join(l.ProgramDir(programID), "combined")
}

// SpeakerTrackPath returns the per-speaker track file inside combined/.
func (l Layout) SpeakerTrackPath(programID, speakerID int64) string {
	return filepath.Join(l.CombinedDir(programID), fmt.Sprintf("combined_%d.wav", speakerID))
}

// MetadataPath returns the timeline metadata sidecar path.
func (l Layout) MetadataPath(programID int64) string {
	return filepath.Join(l.CombinedDir(programID), "metadata.json")
}

// MasterMixPath returns the master mix WAV path, named after the program title.
func (l Layout) MasterMixPath(programID int64, title string) string {
	return filepath.Join(l.CombinedDir(programID), textutil.SanitizeName(title)+".wav")
}

// MasterMP3Path returns the playable export path next to the master mix.
func (l Layout) MasterMP3Path(programID int64, title string) string {
	return filepath.Join(l.CombinedDir(programID), textutil.SanitizeName(title)+".mp3")
}

// MuxedVideoPath returns the output path for the video deliverable.
func (l Layout) MuxedVideoPath(programID int64, title string) string {
	return filepath.Join(l.CombinedDir(programID), textutil.SanitizeName(title)+".output.mp4")
}

// SpeakerDir returns the directory holding one speaker's reference samples.
func (l Layout) SpeakerDir(speakerID int64) string {
	return filepath.Join(l.root, "speakers", fmt.Sprintf("%d", speakerID))
}

// StagingDir returns the scratch directory for candidate repaired waveforms.
func (l Layout) StagingDir(programID int64) string {
	return filepath.Join(l.ProgramDir(programID), "staging")
}

// CandidatePath returns a content-addressed staging path for a repaired
// candidate waveform. The name is derived from the source samples and the
// cut bounds, so re-running the same redaction reuses the same file.
func (l Layout) CandidatePath(programID int64, sourceAudio []byte, cutStart, cutEnd int) string {
	hasher := blake3.New(16, nil)
	hasher.Write(sourceAudio)
	fmt.Fprintf(hasher, ":%d:%d", cutStart, cutEnd)
	digest := hex.EncodeToString(hasher.Sum(nil))
	return filepath.Join(l.StagingDir(programID), digest+".wav")
}

// ScratchPath returns a unique temp path inside the program staging dir,
// for outputs that are not content-addressable (e.g. partial mux output).
func (l Layout) ScratchPath(programID int64, suffix string) string {
	return filepath.Join(l.StagingDir(programID), uuid.NewString()+suffix)
}

// EnsureProgramDirs creates the directories assembly and staging need.
func (l Layout) EnsureProgramDirs(programID int64) error {
	for _, dir := range []string{l.ProgramDir(programID), l.CombinedDir(programID), l.StagingDir(programID)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact directory %q: %w", dir, err)
		}
	}
	return nil
}

// EnsureSpeakerDir creates a speaker's reference sample directory.
func (l Layout) EnsureSpeakerDir(speakerID int64) error {
	dir := l.SpeakerDir(speakerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create speaker directory %q: %w", dir, err)
	}
	return nil
}
