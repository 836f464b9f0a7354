package pipeline_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"revoice/internal/artifacts"
	"revoice/internal/media/wav"
	"revoice/internal/pipeline"
	"revoice/internal/redact"
	"revoice/internal/services"
	"revoice/internal/services/asr"
	"revoice/internal/services/tts"
	"revoice/internal/store"
	"revoice/internal/testsupport"
	"revoice/internal/verify"
)

// fakeSynth writes a short tone per request and remembers what was asked
// for, keyed by output path, so the fake recognizer can "hear" it back.
type fakeSynth struct {
	mu       sync.Mutex
	spoken   map[string]string
	requests []tts.Request
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{spoken: make(map[string]string)}
}

func (f *fakeSynth) Synthesize(_ context.Context, req tts.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken[req.OutputPath] = req.Text
	f.requests = append(f.requests, req)
	audio := wav.Audio{SampleRate: 8000, Samples: make([]float64, 8000)}
	for i := range audio.Samples {
		audio.Samples[i] = 0.1
	}
	return wav.WriteFile(req.OutputPath, audio)
}

// echoTranscriber transcribes exactly what the fake synthesizer spoke.
type echoTranscriber struct {
	synth *fakeSynth
	hints []string
}

func (e *echoTranscriber) Transcribe(_ context.Context, audioPath, languageHint string) (asr.Transcript, error) {
	e.hints = append(e.hints, languageHint)
	e.synth.mu.Lock()
	defer e.synth.mu.Unlock()
	return asr.Transcript{Text: e.synth.spoken[audioPath], Language: "en"}, nil
}

type env struct {
	st     *store.Store
	fx     testsupport.Fixture
	layout artifacts.Layout
	synth  *fakeSynth
	asr    *echoTranscriber
	pipe   *pipeline.Pipeline
}

func newEnv(t *testing.T) *env {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fx := testsupport.NewFixture(t, st)
	layout := artifacts.NewLayout(cfg.Paths.DataDir)
	synth := newFakeSynth()
	transcriber := &echoTranscriber{synth: synth}
	ledger := verify.NewLedger(st, transcriber, nil)
	coordinator := redact.NewCoordinator(st, ledger, transcriber, nil, layout, nil)
	return &env{
		st:     st,
		fx:     fx,
		layout: layout,
		synth:  synth,
		asr:    transcriber,
		pipe:   pipeline.New(st, layout, synth, ledger, coordinator, nil),
	}
}

func (e *env) programWithScript(t *testing.T, text string) *store.Program {
	t.Helper()
	program, err := e.st.CreateProgram(context.Background(), e.fx.Project.ID, "en", text)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	return program
}

func TestSynthesizeProgram(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	program := e.programWithScript(t,
		"{alice}\nHello there.\n{bob}\nGeneral Kenobi.\n")

	if err := e.pipe.Synthesize(ctx, program.ID); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	utterances, err := e.st.ListUtterances(ctx, program.ID)
	if err != nil {
		t.Fatalf("ListUtterances: %v", err)
	}
	if len(utterances) != 2 {
		t.Fatalf("expected 2 utterances, got %d", len(utterances))
	}
	if utterances[0].SpeakerID != e.fx.Alice.ID || utterances[1].SpeakerID != e.fx.Bob.ID {
		t.Fatal("speakers not resolved in script order")
	}
	for _, u := range utterances {
		if _, err := os.Stat(u.AudioPath); err != nil {
			t.Errorf("utterance %d missing artifact: %v", u.Ordinal, err)
		}
		records, err := e.st.ListVerifications(ctx, u.ID)
		if err != nil {
			t.Fatalf("ListVerifications: %v", err)
		}
		if len(records) != 1 || records[0].Score != 1.0 {
			t.Errorf("utterance %d: expected one perfect record, got %+v", u.Ordinal, records)
		}
	}

	updated, err := e.st.GetProgram(ctx, program.ID)
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}
	if !updated.Completed() {
		t.Fatal("program must be marked completed")
	}
}

func TestSynthesizeRefusesExistingUtterances(t *testing.T) {
	e := newEnv(t)
	program := e.programWithScript(t, "{alice}\nHello.\n")
	testsupport.AppendUtterance(t, e.st, program.ID, e.fx.Alice.ID, 0, "Hello.")

	err := e.pipe.Synthesize(context.Background(), program.ID)
	if !errors.Is(err, services.ErrAlreadyCompleted) {
		t.Fatalf("expected already-completed error, got %v", err)
	}
}

func TestSynthesizeUnknownSpeaker(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	program := e.programWithScript(t, "{alice}\nHello.\n{charlie}\nWho am I?\n")

	err := e.pipe.Synthesize(ctx, program.ID)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	count, err := e.st.CountUtterances(ctx, program.ID)
	if err != nil {
		t.Fatalf("CountUtterances: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed resolution must not persist utterances, got %d", count)
	}
}

func TestReread(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	program := e.programWithScript(t, "{alice}\nHello there.\n")
	if err := e.pipe.Synthesize(ctx, program.ID); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	score, err := e.pipe.Reread(ctx, program.ID, 0, "Goodbye now.", "bob")
	if err != nil {
		t.Fatalf("Reread: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("expected perfect reread score, got %v", score)
	}

	u, err := e.st.GetUtteranceByOrdinal(ctx, program.ID, 0)
	if err != nil {
		t.Fatalf("GetUtteranceByOrdinal: %v", err)
	}
	if u.Text != "Goodbye now." || u.SpeakerID != e.fx.Bob.ID {
		t.Fatalf("reread must rewrite text and speaker, got %+v", u)
	}
	if u.Ordinal != 0 {
		t.Fatal("ordinal must never change")
	}

	records, err := e.st.ListVerifications(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListVerifications: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("reread must append a fresh record, got %d", len(records))
	}

	last := e.synth.requests[len(e.synth.requests)-1]
	if !last.Reread {
		t.Fatal("reread synthesis must request seed variation")
	}
	if last.VoiceDir != e.layout.SpeakerDir(e.fx.Bob.ID) {
		t.Fatalf("reread must use the new speaker's voice dir, got %s", last.VoiceDir)
	}
}
