// Package redact repairs the stutter artifact: when verification scores
// an utterance below perfect and the repetition detector can localize a
// duplicated span, the corresponding audio is cut out and the candidate
// is re-verified. A repair is only accepted when it strictly improves the
// score, so a bad edit can never degrade stored audio.
package redact

import (
	"context"
	"log/slog"
	"os"
	"time"

	"revoice/internal/artifacts"
	"revoice/internal/fileutil"
	"revoice/internal/logging"
	"revoice/internal/repetition"
	"revoice/internal/services"
	"revoice/internal/services/asr"
	"revoice/internal/store"
	"revoice/internal/textutil"
	"revoice/internal/verify"
)

// Result reports the outcome of one verify-and-repair cycle.
type Result struct {
	// Accepted is true when a repaired waveform replaced the artifact.
	Accepted bool
	// FinalScore is the utterance's current score after the cycle. It is
	// never lower than the score before the call.
	FinalScore float64
}

// Coordinator drives verification, repetition detection, and audio repair
// for single utterances.
type Coordinator struct {
	store       *store.Store
	ledger      *verify.Ledger
	transcriber asr.Transcriber
	editor      Editor
	layout      artifacts.Layout
	logger      *slog.Logger
}

// NewCoordinator wires a coordinator from its collaborators. A nil editor
// defaults to the in-process WAV editor.
func NewCoordinator(st *store.Store, ledger *verify.Ledger, transcriber asr.Transcriber, editor Editor, layout artifacts.Layout, logger *slog.Logger) *Coordinator {
	if editor == nil {
		editor = WaveEditor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:       st,
		ledger:      ledger,
		transcriber: transcriber,
		editor:      editor,
		layout:      layout,
		logger:      logger,
	}
}

// VerifyAndRepair verifies the utterance and, when the transcript shows a
// single repeated span, attempts to cut it out of the audio. "No
// repetition found" and "score unimproved" are successful outcomes with
// Accepted false; only collaborator or consistency failures return errors.
func (c *Coordinator) VerifyAndRepair(ctx context.Context, utterance *store.Utterance) (Result, error) {
	if utterance == nil {
		return Result{}, services.Wrap(services.ErrValidation, "redact", "verify and repair", "utterance required", nil)
	}
	score, err := c.ledger.GetOrComputeScore(ctx, utterance)
	if err != nil {
		return Result{}, err
	}
	if score == 1.0 {
		return Result{FinalScore: score}, nil
	}
	latest, err := c.store.LatestVerification(ctx, utterance.ID)
	if err != nil {
		return Result{}, err
	}
	if latest == nil {
		return Result{}, services.Wrap(services.ErrConsistency, "redact", "verify and repair",
			"score present but record missing", nil)
	}

	refTokens := textutil.Tokenize(utterance.Text)
	trTokens := textutil.Tokenize(latest.Transcript)
	span, found := repetition.Find(refTokens, trTokens)
	if !found {
		return Result{FinalScore: score}, nil
	}

	startSec, endSec, ok, err := c.spanTimeRange(ctx, utterance, trTokens, span)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		// Word timings do not line up with the stored transcript. Leave
		// the utterance for human review rather than cutting blind.
		c.logger.Warn("repetition located but timings unusable",
			logging.Utterance(utterance.Ordinal))
		return Result{FinalScore: score}, nil
	}

	sourceBytes, err := os.ReadFile(utterance.AudioPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConsistency, "redact", "verify and repair", utterance.AudioPath, err)
	}
	candidatePath := c.layout.CandidatePath(utterance.ProgramID, sourceBytes,
		int(startSec*1000), int(endSec*1000))
	if err := c.layout.EnsureProgramDirs(utterance.ProgramID); err != nil {
		return Result{}, err
	}
	if err := c.editor.Cut(utterance.AudioPath, candidatePath, startSec, endSec); err != nil {
		return Result{}, err
	}

	candidate, err := c.transcriber.Transcribe(ctx, candidatePath, "")
	if err != nil {
		return Result{}, err
	}
	newScore := textutil.Score(utterance.Text, candidate.Text)
	if newScore <= score {
		os.Remove(candidatePath)
		c.logger.Debug("repair rejected",
			logging.Utterance(utterance.Ordinal),
			slog.Float64("old_score", score),
			slog.Float64("new_score", newScore))
		return Result{FinalScore: score}, nil
	}

	// Accept: the repaired waveform replaces the artifact and the
	// improved score is appended to the ledger.
	if err := fileutil.CopyFile(candidatePath, utterance.AudioPath); err != nil {
		return Result{}, services.Wrap(services.ErrConsistency, "redact", "verify and repair", utterance.AudioPath, err)
	}
	os.Remove(candidatePath)
	if _, err := c.store.AppendVerification(ctx, utterance.ID, candidate.Text, newScore, time.Now()); err != nil {
		return Result{}, err
	}
	c.logger.Info("repetition repaired",
		logging.Utterance(utterance.Ordinal),
		slog.Float64("old_score", score),
		slog.Float64("new_score", newScore))
	return Result{Accepted: true, FinalScore: newScore}, nil
}

// spanTimeRange maps a transcript token span to a time range using the
// recognizer's word timings. Returns ok=false when the recognizer's word
// sequence cannot be aligned with the stored transcript tokens.
func (c *Coordinator) spanTimeRange(ctx context.Context, utterance *store.Utterance, trTokens []string, span repetition.Span) (float64, float64, bool, error) {
	timed, err := c.transcriber.Transcribe(ctx, utterance.AudioPath, "")
	if err != nil {
		return 0, 0, false, err
	}
	if len(timed.Words) != len(trTokens) {
		return 0, 0, false, nil
	}
	for i, w := range timed.Words {
		if textutil.Normalize(w.Word) != trTokens[i] {
			return 0, 0, false, nil
		}
	}
	if span.Start < 0 || span.End > len(timed.Words) || span.Start >= span.End {
		return 0, 0, false, nil
	}
	return timed.Words[span.Start].Start, timed.Words[span.End-1].End, true, nil
}
