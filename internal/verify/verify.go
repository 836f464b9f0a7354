// Package verify answers "does this synthesized utterance actually say
// what it was asked to say". It round-trips utterance audio through the
// recognizer, scores the transcript against the intended text, and keeps
// an append-only record log so a score is computed once and then cached.
package verify

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"revoice/internal/services"
	"revoice/internal/services/asr"
	"revoice/internal/store"
	"revoice/internal/textutil"
)

// Ledger runs round-trip verification and caches the results.
type Ledger struct {
	store       *store.Store
	transcriber asr.Transcriber
	logger      *slog.Logger
}

// NewLedger builds a ledger over the given store and recognizer.
func NewLedger(st *store.Store, transcriber asr.Transcriber, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: st, transcriber: transcriber, logger: logger}
}

// GetOrComputeScore returns the utterance's current fidelity score. The
// latest verification record wins; when none exists the audio is
// transcribed with no forced language, scored, and a new record appended.
func (l *Ledger) GetOrComputeScore(ctx context.Context, utterance *store.Utterance) (float64, error) {
	if utterance == nil {
		return 0, services.Wrap(services.ErrValidation, "verify", "get score", "utterance required", nil)
	}
	latest, err := l.store.LatestVerification(ctx, utterance.ID)
	if err != nil {
		return 0, err
	}
	if latest != nil {
		return latest.Score, nil
	}
	record, err := l.ComputeAndStore(ctx, utterance, "")
	if err != nil {
		return 0, err
	}
	return record.Score, nil
}

// ComputeAndStore transcribes the utterance's current audio artifact,
// scores the transcript against the utterance text, and appends a fresh
// verification record. Callers use this to force a re-check after a
// re-synthesis; most callers want GetOrComputeScore instead.
func (l *Ledger) ComputeAndStore(ctx context.Context, utterance *store.Utterance, languageHint string) (*store.VerificationRecord, error) {
	if utterance == nil || utterance.AudioPath == "" {
		return nil, services.Wrap(services.ErrValidation, "verify", "compute score", "utterance with audio required", nil)
	}
	transcript, err := l.transcriber.Transcribe(ctx, utterance.AudioPath, languageHint)
	if err != nil {
		return nil, err
	}
	score := textutil.Score(utterance.Text, transcript.Text)
	record, err := l.store.AppendVerification(ctx, utterance.ID, transcript.Text, score, time.Now())
	if err != nil {
		return nil, err
	}
	l.logger.Debug("verification stored",
		slog.Int64("utterance_id", utterance.ID),
		slog.Float64("score", score))
	return record, nil
}

// ProgramScore returns the arithmetic mean of the program's current
// per-utterance scores along with those scores in ordinal order. An empty
// program scores 0.0.
func (l *Ledger) ProgramScore(ctx context.Context, programID int64) (float64, []float64, error) {
	utterances, err := l.store.ListUtterances(ctx, programID)
	if err != nil {
		return 0, nil, err
	}
	if len(utterances) == 0 {
		return 0, nil, nil
	}
	scores := make([]float64, 0, len(utterances))
	sum := 0.0
	for _, u := range utterances {
		score, err := l.GetOrComputeScore(ctx, u)
		if err != nil {
			return 0, nil, err
		}
		scores = append(scores, score)
		sum += score
	}
	return sum / float64(len(scores)), scores, nil
}

// Scored pairs an utterance with its current score for review listings.
type Scored struct {
	Utterance *store.Utterance
	Score     float64
}

// UtterancesBelow lists utterances whose current score is strictly below
// the threshold, worst first. A threshold of zero or less disables the
// filter and returns the full program in ordinal order.
func (l *Ledger) UtterancesBelow(ctx context.Context, programID int64, threshold float64) ([]Scored, error) {
	utterances, err := l.store.ListUtterances(ctx, programID)
	if err != nil {
		return nil, err
	}
	scored := make([]Scored, 0, len(utterances))
	for _, u := range utterances {
		score, err := l.GetOrComputeScore(ctx, u)
		if err != nil {
			return nil, err
		}
		scored = append(scored, Scored{Utterance: u, Score: score})
	}
	if threshold <= 0 {
		return scored, nil
	}
	filtered := scored[:0]
	for _, s := range scored {
		if s.Score < threshold {
			filtered = append(filtered, s)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score < filtered[j].Score
	})
	return filtered, nil
}
