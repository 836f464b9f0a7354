// Package timeline reassembles a program's independently synthesized
// utterances into sample-aligned per-speaker tracks, a peak-normalized
// master mix, and a deliverable synchronized with the source media.
package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"revoice/internal/artifacts"
	"revoice/internal/logging"
	"revoice/internal/media"
	"revoice/internal/media/ffprobe"
	"revoice/internal/media/wav"
	"revoice/internal/services"
	"revoice/internal/store"
)

// Entry is one timed utterance in the metadata sidecar. Times are
// formatted with millisecond precision to keep the sidecar stable across
// runs.
type Entry struct {
	StartSec    string `json:"start_sec"`
	EndSec      string `json:"end_sec"`
	SpeakerID   int64  `json:"speaker_id"`
	SpeakerName string `json:"speaker_name"`
	Text        string `json:"text"`
}

// Result describes everything one assembly run produced.
type Result struct {
	SampleRate   int
	Entries      []Entry
	TrackPaths   map[int64]string
	MetadataPath string
	MasterPath   string
	MP3Path      string
	// VideoPath is set only when the source media has a video stream and
	// the first utterance carries a timecode.
	VideoPath string
}

// Prober answers whether source media carries a video stream.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Assembler builds program deliverables from synthesized utterances.
type Assembler struct {
	store         *store.Store
	layout        artifacts.Layout
	tool          *media.Tool
	ffprobeBinary string
	leadIn        float64
	probe         Prober
	logger        *slog.Logger
}

// NewAssembler wires an assembler. leadIn is the margin in seconds played
// before the first utterance's source timecode when muxing against video.
func NewAssembler(st *store.Store, layout artifacts.Layout, tool *media.Tool, ffprobeBinary string, leadIn float64, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		store:         st,
		layout:        layout,
		tool:          tool,
		ffprobeBinary: ffprobeBinary,
		leadIn:        leadIn,
		probe:         ffprobe.Inspect,
		logger:        logger,
	}
}

// WithProber sets a custom media prober (for testing).
func (a *Assembler) WithProber(probe Prober) *Assembler {
	a.probe = probe
	return a
}

// Assemble builds the full deliverable set for one program: per-speaker
// tracks padded with silence wherever the speaker is not active, a
// metadata sidecar, a peak-normalized master mix with MP3 export, and a
// muxed video when the source carries a video stream. Assembly is
// all-or-nothing: every utterance artifact is read and validated before
// the first output file is written.
func (a *Assembler) Assemble(ctx context.Context, programID int64) (*Result, error) {
	release, err := a.store.AcquireProgramLock(programID)
	if err != nil {
		return nil, err
	}
	defer release()

	program, err := a.store.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	project, err := a.store.GetProject(ctx, program.ProjectID)
	if err != nil {
		return nil, err
	}
	utterances, err := a.store.ListUtterances(ctx, programID)
	if err != nil {
		return nil, err
	}
	if len(utterances) == 0 {
		return nil, services.Wrap(services.ErrValidation, "timeline", "assemble",
			fmt.Sprintf("program %d has no utterances", programID), nil)
	}
	speakers, err := a.store.ListSpeakers(ctx, program.ProjectID)
	if err != nil {
		return nil, err
	}
	speakerNames := make(map[int64]string, len(speakers))
	for _, s := range speakers {
		speakerNames[s.ID] = s.Name
	}

	// Read everything up front so a missing artifact fails the run before
	// any deliverable is written.
	audio := make([]wav.Audio, len(utterances))
	sampleRate := 0
	for i, u := range utterances {
		if u.AudioPath == "" {
			return nil, services.Wrap(services.ErrConsistency, "timeline", "assemble",
				fmt.Sprintf("utterance %d has no audio artifact", u.Ordinal), nil)
		}
		clip, err := wav.ReadFile(u.AudioPath)
		if err != nil {
			return nil, services.Wrap(services.ErrConsistency, "timeline", "assemble",
				fmt.Sprintf("utterance %d artifact unreadable", u.Ordinal), err)
		}
		if sampleRate == 0 {
			sampleRate = clip.SampleRate
		} else if clip.SampleRate != sampleRate {
			return nil, services.Wrap(services.ErrConsistency, "timeline", "assemble",
				fmt.Sprintf("utterance %d sample rate %d differs from program rate %d",
					u.Ordinal, clip.SampleRate, sampleRate), nil)
		}
		if _, ok := speakerNames[u.SpeakerID]; !ok {
			return nil, services.Wrap(services.ErrNotFound, "timeline", "assemble",
				fmt.Sprintf("speaker %d referenced by utterance %d", u.SpeakerID, u.Ordinal), nil)
		}
		audio[i] = clip
	}

	// One growing buffer per distinct speaker, all sample-aligned to the
	// same master clock: each utterance appends its samples to its own
	// speaker and the same length of silence to everyone else.
	tracks := make(map[int64][]float64)
	for _, u := range utterances {
		if _, ok := tracks[u.SpeakerID]; !ok {
			tracks[u.SpeakerID] = nil
		}
	}
	entries := make([]Entry, 0, len(utterances))
	cursor := 0.0
	total := 0
	for i, u := range utterances {
		clip := audio[i]
		n := len(clip.Samples)
		for id := range tracks {
			if id == u.SpeakerID {
				tracks[id] = append(tracks[id], clip.Samples...)
			} else {
				tracks[id] = append(tracks[id], make([]float64, n)...)
			}
		}
		end := cursor + clip.Duration()
		entries = append(entries, Entry{
			StartSec:    fmt.Sprintf("%.3f", cursor),
			EndSec:      fmt.Sprintf("%.3f", end),
			SpeakerID:   u.SpeakerID,
			SpeakerName: speakerNames[u.SpeakerID],
			Text:        u.Text,
		})
		cursor = end
		total += n
	}
	for id, track := range tracks {
		if len(track) != total {
			return nil, services.Wrap(services.ErrConsistency, "timeline", "assemble",
				fmt.Sprintf("speaker %d track length %d, want %d", id, len(track), total), nil)
		}
	}

	master := mixdown(tracks, total)

	if err := a.layout.EnsureProgramDirs(programID); err != nil {
		return nil, err
	}
	result := &Result{
		SampleRate:   sampleRate,
		Entries:      entries,
		TrackPaths:   make(map[int64]string, len(tracks)),
		MetadataPath: a.layout.MetadataPath(programID),
		MasterPath:   a.layout.MasterMixPath(programID, project.Title),
		MP3Path:      a.layout.MasterMP3Path(programID, project.Title),
	}
	for id, track := range tracks {
		path := a.layout.SpeakerTrackPath(programID, id)
		if err := wav.WriteFile(path, wav.Audio{SampleRate: sampleRate, Samples: track}); err != nil {
			return nil, services.Wrap(services.ErrConsistency, "timeline", "assemble", path, err)
		}
		result.TrackPaths[id] = path
	}
	sidecar, err := json.Marshal(entries)
	if err != nil {
		return nil, services.Wrap(services.ErrConsistency, "timeline", "assemble", "encode metadata", err)
	}
	if err := os.WriteFile(result.MetadataPath, sidecar, 0o644); err != nil {
		return nil, services.Wrap(services.ErrConsistency, "timeline", "assemble", result.MetadataPath, err)
	}
	masterAudio := wav.Audio{SampleRate: sampleRate, Samples: master}
	if err := wav.WriteFile(result.MasterPath, masterAudio); err != nil {
		return nil, services.Wrap(services.ErrConsistency, "timeline", "assemble", result.MasterPath, err)
	}
	if err := a.tool.ExportMP3(ctx, result.MasterPath, result.MP3Path); err != nil {
		return nil, services.Wrap(services.ErrCollaborator, "timeline", "assemble", result.MP3Path, err)
	}

	videoPath, err := a.maybeMux(ctx, project, utterances[0], result.MasterPath, masterAudio.Duration(), programID)
	if err != nil {
		return nil, err
	}
	result.VideoPath = videoPath

	a.logger.Info("program assembled",
		logging.ProgramID(programID),
		slog.Int("utterances", len(utterances)),
		slog.Int("speakers", len(tracks)),
		slog.Bool("video", videoPath != ""))
	return result, nil
}

// maybeMux produces the video deliverable when the source media has a
// video stream and the first utterance carries a source timecode.
// Otherwise the master mix is the deliverable and no video is written.
func (a *Assembler) maybeMux(ctx context.Context, project *store.Project, first *store.Utterance, masterPath string, masterDuration float64, programID int64) (string, error) {
	if project.MediaPath == "" || first.Timecode == "" {
		return "", nil
	}
	probe, err := a.probe(ctx, a.ffprobeBinary, project.MediaPath)
	if err != nil {
		return "", services.Wrap(services.ErrCollaborator, "timeline", "assemble", project.MediaPath, err)
	}
	if !probe.HasVideoStream() {
		return "", nil
	}
	start, _, err := TimecodeRange(first.Timecode)
	if err != nil {
		return "", err
	}
	offset := start - a.leadIn
	if offset < 0 {
		offset = 0
	}
	// ffmpeg writes into staging; the deliverable name appears in
	// combined/ only once the mux has finished.
	scratch := a.layout.ScratchPath(programID, ".mp4")
	err = a.tool.Mux(ctx, media.MuxRequest{
		VideoPath:      project.MediaPath,
		AudioPath:      masterPath,
		OutputPath:     scratch,
		StartOffsetSec: offset,
		DurationSec:    masterDuration,
	})
	if err != nil {
		_ = os.Remove(scratch)
		return "", services.Wrap(services.ErrCollaborator, "timeline", "assemble", scratch, err)
	}
	videoPath := a.layout.MuxedVideoPath(programID, project.Title)
	if err := os.Rename(scratch, videoPath); err != nil {
		return "", services.Wrap(services.ErrConsistency, "timeline", "assemble", videoPath, err)
	}
	return videoPath, nil
}

// mixdown sums all speaker tracks and peak-normalizes the result. A
// silent or empty mix is returned unchanged.
func mixdown(tracks map[int64][]float64, total int) []float64 {
	master := make([]float64, total)
	for _, track := range tracks {
		for i, s := range track {
			master[i] += s
		}
	}
	peak := 0.0
	for _, s := range master {
		if s > peak {
			peak = s
		} else if -s > peak {
			peak = -s
		}
	}
	if peak == 0 {
		return master
	}
	for i := range master {
		master[i] /= peak
	}
	return master
}
