package testsupport

import (
	"context"
	"testing"
	"time"

	"revoice/internal/config"
	"revoice/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// Fixture bundles the rows most pipeline tests need: one project, one
// program, and two speakers belonging to the project.
type Fixture struct {
	Project *store.Project
	Program *store.Program
	Alice   *store.Speaker
	Bob     *store.Speaker
}

// NewFixture seeds a project with a program and two speakers.
func NewFixture(t testing.TB, st *store.Store) Fixture {
	t.Helper()
	ctx := context.Background()

	project, err := st.CreateProject(ctx, "Sample Project", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	program, err := st.CreateProgram(ctx, project.ID, "uk", "")
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	alice, err := st.CreateSpeaker(ctx, project.ID, "alice")
	if err != nil {
		t.Fatalf("CreateSpeaker alice: %v", err)
	}
	bob, err := st.CreateSpeaker(ctx, project.ID, "bob")
	if err != nil {
		t.Fatalf("CreateSpeaker bob: %v", err)
	}
	return Fixture{Project: project, Program: program, Alice: alice, Bob: bob}
}

// AppendUtterance inserts an utterance with sensible defaults for tests.
func AppendUtterance(t testing.TB, st *store.Store, programID, speakerID int64, ordinal int, text string) *store.Utterance {
	t.Helper()

	utterance, err := st.AppendUtterance(context.Background(), programID, speakerID, ordinal, text, "", time.Now())
	if err != nil {
		t.Fatalf("AppendUtterance: %v", err)
	}
	return utterance
}
