// Package textutil provides text normalization and similarity scoring for
// round-trip verification of synthesized speech.
//
// The primary use cases are:
//   - Normalizing reference text and ASR transcripts to a comparable form
//   - Computing a bounded [0,1] fidelity score from Levenshtein distance
//   - Sanitizing titles and speaker names for safe filesystem use
//
// Normalization trims whitespace, removes punctuation, and lowercases, so
// the score is insensitive to casing and punctuation differences between
// what was requested and what the recognizer heard.
package textutil
