package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"revoice/internal/services"
	"revoice/internal/testsupport"
)

func TestCreateAndFetchHierarchy(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	fx := testsupport.NewFixture(t, st)
	if fx.Program.ProjectID != fx.Project.ID {
		t.Fatalf("program project = %d, want %d", fx.Program.ProjectID, fx.Project.ID)
	}

	byTitle, err := st.GetProjectByTitle(ctx, "Sample Project")
	if err != nil {
		t.Fatalf("GetProjectByTitle: %v", err)
	}
	if byTitle.ID != fx.Project.ID {
		t.Fatalf("unexpected project %d", byTitle.ID)
	}

	byLang, err := st.GetProgramByLang(ctx, fx.Project.ID, "uk")
	if err != nil {
		t.Fatalf("GetProgramByLang: %v", err)
	}
	if byLang.ID != fx.Program.ID {
		t.Fatalf("unexpected program %d", byLang.ID)
	}
	if byLang.Completed() {
		t.Fatal("new program should not be completed")
	}
}

func TestCreateProjectValidatesTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.CreateProject(context.Background(), "   ", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProgramMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.GetProgram(context.Background(), 999)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAppendUtteranceEnforcesProjectScope(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	fx := testsupport.NewFixture(t, st)

	other, err := st.CreateProject(ctx, "Other Project", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	stranger, err := st.CreateSpeaker(ctx, other.ID, "stranger")
	if err != nil {
		t.Fatalf("CreateSpeaker: %v", err)
	}

	_, err = st.AppendUtterance(ctx, fx.Program.ID, stranger.ID, 0, "hello", "", time.Now())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for cross-project speaker, got %v", err)
	}
}

func TestUtteranceOrdinalsAreUnique(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	fx := testsupport.NewFixture(t, st)
	testsupport.AppendUtterance(t, st, fx.Program.ID, fx.Alice.ID, 0, "first")

	if _, err := st.AppendUtterance(ctx, fx.Program.ID, fx.Alice.ID, 0, "duplicate", "", time.Now()); err == nil {
		t.Fatal("expected unique constraint violation for duplicate ordinal")
	}
}

func TestListUtterancesOrdinalOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	fx := testsupport.NewFixture(t, st)
	// Insert out of order; ordinals need not be contiguous integers.
	testsupport.AppendUtterance(t, st, fx.Program.ID, fx.Bob.ID, 5, "third")
	testsupport.AppendUtterance(t, st, fx.Program.ID, fx.Alice.ID, 0, "first")
	testsupport.AppendUtterance(t, st, fx.Program.ID, fx.Alice.ID, 2, "second")

	utterances, err := st.ListUtterances(ctx, fx.Program.ID)
	if err != nil {
		t.Fatalf("ListUtterances: %v", err)
	}
	if len(utterances) != 3 {
		t.Fatalf("expected 3 utterances, got %d", len(utterances))
	}
	wantTexts := []string{"first", "second", "third"}
	for i, want := range wantTexts {
		if utterances[i].Text != want {
			t.Errorf("utterance %d text = %q, want %q", i, utterances[i].Text, want)
		}
	}
}

func TestRewriteUtterance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	fx := testsupport.NewFixture(t, st)
	utterance := testsupport.AppendUtterance(t, st, fx.Program.ID, fx.Alice.ID, 0, "old text")

	started := time.Now()
	completed := started.Add(2 * time.Second)
	if err := st.RewriteUtterance(ctx, utterance.ID, fx.Bob.ID, "new text", started, completed); err != nil {
		t.Fatalf("RewriteUtterance: %v", err)
	}

	updated, err := st.GetUtterance(ctx, utterance.ID)
	if err != nil {
		t.Fatalf("GetUtterance: %v", err)
	}
	if updated.Text != "new text" || updated.SpeakerID != fx.Bob.ID {
		t.Fatalf("unexpected utterance after rewrite: %+v", updated)
	}
	if updated.Ordinal != 0 {
		t.Fatalf("ordinal must survive rewrite, got %d", updated.Ordinal)
	}
	if updated.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
}

func TestMarkProgramCompleted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	fx := testsupport.NewFixture(t, st)
	if err := st.MarkProgramCompleted(ctx, fx.Program.ID, time.Now()); err != nil {
		t.Fatalf("MarkProgramCompleted: %v", err)
	}
	program, err := st.GetProgram(ctx, fx.Program.ID)
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}
	if !program.Completed() {
		t.Fatal("expected completed program")
	}
}

func TestDeleteProgramCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	fx := testsupport.NewFixture(t, st)
	utterance := testsupport.AppendUtterance(t, st, fx.Program.ID, fx.Alice.ID, 0, "hello")
	if _, err := st.AppendVerification(ctx, utterance.ID, "hello", 1.0, time.Now()); err != nil {
		t.Fatalf("AppendVerification: %v", err)
	}

	if err := st.DeleteProgram(ctx, fx.Program.ID); err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}
	if _, err := st.GetUtterance(ctx, utterance.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected utterance to cascade, got %v", err)
	}
}
