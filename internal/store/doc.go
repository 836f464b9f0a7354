// Package store persists projects, programs, speakers, utterances, and
// verification records in SQLite.
//
// Verification records are append-only: re-checks and re-syntheses add new
// rows, and the current score of an utterance is always the latest record,
// read with a deterministic tie-break (newest created_at, then highest id).
// Utterance deletion cascades from its program; nothing ever rewrites a
// verification row.
//
// The store also owns the per-program file locks that keep "assemble" and
// "append utterance" mutually exclusive on one program.
package store
