// Package pipeline drives program synthesis end to end: parse the
// finalized translation script, synthesize each utterance with its
// speaker's cloned voice, verify the result against the intended text,
// and repair stutters where possible. Utterances are processed strictly
// in ordinal order under the program lock.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"revoice/internal/artifacts"
	"revoice/internal/language"
	"revoice/internal/logging"
	"revoice/internal/redact"
	"revoice/internal/script"
	"revoice/internal/services"
	"revoice/internal/services/tts"
	"revoice/internal/store"
	"revoice/internal/verify"
)

// Pipeline orchestrates synthesis, verification, and repair for programs.
type Pipeline struct {
	store       *store.Store
	layout      artifacts.Layout
	synthesizer tts.Synthesizer
	ledger      *verify.Ledger
	coordinator *redact.Coordinator
	logger      *slog.Logger
}

// New wires a pipeline from its collaborators.
func New(st *store.Store, layout artifacts.Layout, synthesizer tts.Synthesizer, ledger *verify.Ledger, coordinator *redact.Coordinator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:       st,
		layout:      layout,
		synthesizer: synthesizer,
		ledger:      ledger,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Synthesize renders a program whose translation text is finalized. A
// program that already has utterances is refused; re-rendering individual
// utterances goes through Reread. Holds the program lock for the whole
// run, so assembly of the same program cannot interleave.
func (p *Pipeline) Synthesize(ctx context.Context, programID int64) error {
	release, err := p.store.AcquireProgramLock(programID)
	if err != nil {
		return err
	}
	defer release()

	program, err := p.store.GetProgram(ctx, programID)
	if err != nil {
		return err
	}
	count, err := p.store.CountUtterances(ctx, programID)
	if err != nil {
		return err
	}
	if count > 0 {
		return services.Wrap(services.ErrAlreadyCompleted, "pipeline", "synthesize",
			fmt.Sprintf("program %d already has %d utterances", programID, count), nil)
	}

	raw, err := script.Parse(program.Text)
	if err != nil {
		return err
	}
	speakers := make(map[string]*store.Speaker)
	for _, utter := range raw {
		if _, ok := speakers[utter.Speaker]; ok {
			continue
		}
		speaker, err := p.store.GetSpeakerByName(ctx, program.ProjectID, utter.Speaker)
		if err != nil {
			return err
		}
		speakers[utter.Speaker] = speaker
	}
	if err := p.layout.EnsureProgramDirs(programID); err != nil {
		return err
	}

	for ordinal, utter := range raw {
		speaker := speakers[utter.Speaker]
		if err := p.renderOne(ctx, program, speaker, ordinal, utter.Text, utter.Timecode, false); err != nil {
			return err
		}
	}
	if err := p.store.MarkProgramCompleted(ctx, programID, time.Now()); err != nil {
		return err
	}
	p.logger.Info("program synthesized",
		logging.ProgramID(programID),
		slog.Int("utterances", len(raw)))
	return nil
}

// Reread re-synthesizes one utterance with possibly-changed text and
// speaker, overwrites its artifact, and appends a fresh verification
// record. Seed variation is forced so the new take can differ from the
// one it replaces.
func (p *Pipeline) Reread(ctx context.Context, programID int64, ordinal int, text, speakerName string) (float64, error) {
	release, err := p.store.AcquireProgramLock(programID)
	if err != nil {
		return 0, err
	}
	defer release()

	program, err := p.store.GetProgram(ctx, programID)
	if err != nil {
		return 0, err
	}
	utterance, err := p.store.GetUtteranceByOrdinal(ctx, programID, ordinal)
	if err != nil {
		return 0, err
	}
	speaker, err := p.store.GetSpeakerByName(ctx, program.ProjectID, speakerName)
	if err != nil {
		return 0, err
	}

	startedAt := time.Now()
	audioPath := p.layout.UtterancePath(programID, ordinal)
	err = p.synthesizer.Synthesize(ctx, tts.Request{
		Text:       text,
		VoiceDir:   p.layout.SpeakerDir(speaker.ID),
		OutputPath: audioPath,
		Reread:     true,
	})
	if err != nil {
		return 0, err
	}
	if err := p.store.RewriteUtterance(ctx, utterance.ID, speaker.ID, text, startedAt, time.Now()); err != nil {
		return 0, err
	}
	if err := p.store.SetUtteranceAudio(ctx, utterance.ID, audioPath, time.Now()); err != nil {
		return 0, err
	}
	utterance, err = p.store.GetUtterance(ctx, utterance.ID)
	if err != nil {
		return 0, err
	}
	record, err := p.ledger.ComputeAndStore(ctx, utterance, language.Hint(program.Lang))
	if err != nil {
		return 0, err
	}
	p.logger.Info("utterance reread",
		logging.ProgramID(programID),
		logging.Utterance(ordinal),
		logging.Speaker(speakerName),
		logging.Score(record.Score))
	return record.Score, nil
}

// renderOne synthesizes a single utterance, persists it, and runs the
// verify-and-repair cycle.
func (p *Pipeline) renderOne(ctx context.Context, program *store.Program, speaker *store.Speaker, ordinal int, text, timecode string, reread bool) error {
	startedAt := time.Now()
	utterance, err := p.store.AppendUtterance(ctx, program.ID, speaker.ID, ordinal, text, timecode, startedAt)
	if err != nil {
		return err
	}
	audioPath := p.layout.UtterancePath(program.ID, ordinal)
	err = p.synthesizer.Synthesize(ctx, tts.Request{
		Text:       text,
		VoiceDir:   p.layout.SpeakerDir(speaker.ID),
		OutputPath: audioPath,
		Reread:     reread,
	})
	if err != nil {
		return err
	}
	if err := p.store.SetUtteranceAudio(ctx, utterance.ID, audioPath, time.Now()); err != nil {
		return err
	}
	utterance, err = p.store.GetUtterance(ctx, utterance.ID)
	if err != nil {
		return err
	}
	result, err := p.coordinator.VerifyAndRepair(ctx, utterance)
	if err != nil {
		return err
	}
	p.logger.Debug("utterance rendered",
		logging.ProgramID(program.ID),
		logging.Utterance(ordinal),
		logging.Speaker(speaker.Name),
		logging.Score(result.FinalScore),
		slog.Bool("repaired", result.Accepted))
	return nil
}
