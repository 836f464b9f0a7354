package store

import "time"

// Project is a source recording being localized. Programs and speakers
// both hang off a project; an utterance may only reference a speaker from
// its program's project.
type Project struct {
	ID        int64
	Title     string
	MediaPath string
	CreatedAt time.Time
}

// Program is one target-language rendition of a project: an ordered
// sequence of utterances it owns exclusively.
type Program struct {
	ID          int64
	ProjectID   int64
	Lang        string
	Text        string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Completed reports whether every utterance of the program has been synthesized.
func (p Program) Completed() bool {
	return p.CompletedAt != nil
}

// Speaker is a voice identity with reference audio on disk, scoped to a project.
type Speaker struct {
	ID        int64
	ProjectID int64
	Name      string
}

// Utterance is one synthesized speech unit within a program. Text, speaker,
// audio artifact, and timestamps are rewritten by a reread; the ordinal
// never changes.
type Utterance struct {
	ID          int64
	ProgramID   int64
	SpeakerID   int64
	Ordinal     int
	Text        string
	AudioPath   string
	Timecode    string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// VerificationRecord is one round-trip check result for an utterance.
// Rows are only ever appended.
type VerificationRecord struct {
	ID          int64
	UtteranceID int64
	Transcript  string
	Score       float64
	CreatedAt   time.Time
}
