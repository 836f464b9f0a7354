package verify_test

import (
	"context"
	"math"
	"testing"
	"time"

	"revoice/internal/services/asr"
	"revoice/internal/store"
	"revoice/internal/testsupport"
	"revoice/internal/verify"
)

// fakeTranscriber returns canned transcripts keyed by audio path and
// counts invocations.
type fakeTranscriber struct {
	byPath map[string]string
	calls  int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath, _ string) (asr.Transcript, error) {
	f.calls++
	return asr.Transcript{Text: f.byPath[audioPath], Language: "en"}, nil
}

func seedUtterance(t *testing.T, st *store.Store, fx testsupport.Fixture, ordinal int, text, audioPath string) *store.Utterance {
	t.Helper()
	u := testsupport.AppendUtterance(t, st, fx.Program.ID, fx.Alice.ID, ordinal, text)
	if err := st.SetUtteranceAudio(context.Background(), u.ID, audioPath, time.Now()); err != nil {
		t.Fatalf("SetUtteranceAudio: %v", err)
	}
	u, err := st.GetUtterance(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUtterance: %v", err)
	}
	return u
}

func TestGetOrComputeScoreCachesResult(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fx := testsupport.NewFixture(t, st)
	ctx := context.Background()

	u := seedUtterance(t, st, fx, 0, "hello world", "0.wav")
	ft := &fakeTranscriber{byPath: map[string]string{"0.wav": "Hello, world!"}}
	ledger := verify.NewLedger(st, ft, nil)

	first, err := ledger.GetOrComputeScore(ctx, u)
	if err != nil {
		t.Fatalf("GetOrComputeScore: %v", err)
	}
	if first != 1.0 {
		t.Fatalf("expected perfect score after normalization, got %v", first)
	}
	second, err := ledger.GetOrComputeScore(ctx, u)
	if err != nil {
		t.Fatalf("GetOrComputeScore: %v", err)
	}
	if second != first {
		t.Fatalf("cached score %v differs from computed %v", second, first)
	}
	if ft.calls != 1 {
		t.Fatalf("expected one recognizer call, got %d", ft.calls)
	}
	records, err := st.ListVerifications(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListVerifications: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
}

func TestComputeAndStoreAppendsFreshRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fx := testsupport.NewFixture(t, st)
	ctx := context.Background()

	u := seedUtterance(t, st, fx, 0, "hello world", "0.wav")
	ft := &fakeTranscriber{byPath: map[string]string{"0.wav": "hello word"}}
	ledger := verify.NewLedger(st, ft, nil)

	if _, err := ledger.GetOrComputeScore(ctx, u); err != nil {
		t.Fatalf("GetOrComputeScore: %v", err)
	}
	ft.byPath["0.wav"] = "hello world"
	record, err := ledger.ComputeAndStore(ctx, u, "")
	if err != nil {
		t.Fatalf("ComputeAndStore: %v", err)
	}
	if record.Score != 1.0 {
		t.Fatalf("expected 1.0 after re-check, got %v", record.Score)
	}
	score, err := ledger.GetOrComputeScore(ctx, u)
	if err != nil {
		t.Fatalf("GetOrComputeScore: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("latest record must win, got %v", score)
	}
}

func TestProgramScoreEmptyProgram(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fx := testsupport.NewFixture(t, st)

	ledger := verify.NewLedger(st, &fakeTranscriber{byPath: map[string]string{}}, nil)
	mean, scores, err := ledger.ProgramScore(context.Background(), fx.Program.ID)
	if err != nil {
		t.Fatalf("ProgramScore: %v", err)
	}
	if mean != 0.0 || len(scores) != 0 {
		t.Fatalf("empty program must score 0.0, got %v %v", mean, scores)
	}
}

func TestProgramScoreMean(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fx := testsupport.NewFixture(t, st)
	ctx := context.Background()

	seedUtterance(t, st, fx, 0, "abcd", "0.wav")
	seedUtterance(t, st, fx, 1, "hello", "1.wav")
	ft := &fakeTranscriber{byPath: map[string]string{
		"0.wav": "abcd",  // 1.0
		"1.wav": "hellx", // 0.8
	}}
	ledger := verify.NewLedger(st, ft, nil)

	mean, scores, err := ledger.ProgramScore(ctx, fx.Program.ID)
	if err != nil {
		t.Fatalf("ProgramScore: %v", err)
	}
	if len(scores) != 2 || scores[0] != 1.0 || scores[1] != 0.8 {
		t.Fatalf("unexpected scores %v", scores)
	}
	if math.Abs(mean-0.9) > 1e-9 {
		t.Fatalf("expected mean 0.9, got %v", mean)
	}
}

func TestUtterancesBelowFiltersAndSorts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	fx := testsupport.NewFixture(t, st)
	ctx := context.Background()

	seedUtterance(t, st, fx, 0, "abcde", "0.wav")
	seedUtterance(t, st, fx, 1, "abcde", "1.wav")
	seedUtterance(t, st, fx, 2, "abcde", "2.wav")
	ft := &fakeTranscriber{byPath: map[string]string{
		"0.wav": "abcde", // 1.0
		"1.wav": "abcxx", // 0.6
		"2.wav": "abcdx", // 0.8
	}}
	ledger := verify.NewLedger(st, ft, nil)

	below, err := ledger.UtterancesBelow(ctx, fx.Program.ID, 0.9)
	if err != nil {
		t.Fatalf("UtterancesBelow: %v", err)
	}
	if len(below) != 2 {
		t.Fatalf("expected 2 utterances below threshold, got %d", len(below))
	}
	if below[0].Score != 0.6 || below[1].Score != 0.8 {
		t.Fatalf("expected worst-first ordering, got %v %v", below[0].Score, below[1].Score)
	}

	all, err := ledger.UtterancesBelow(ctx, fx.Program.ID, 0)
	if err != nil {
		t.Fatalf("UtterancesBelow: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("threshold <= 0 must return the full program, got %d", len(all))
	}
	for i, s := range all {
		if s.Utterance.Ordinal != i {
			t.Fatalf("expected natural order, got ordinal %d at index %d", s.Utterance.Ordinal, i)
		}
	}
}
