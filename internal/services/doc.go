// Package services defines the shared error taxonomy for the dubbing
// pipeline and hosts the external collaborator clients (ASR, TTS) in
// subpackages.
//
// Errors are classified with sentinel markers so callers can distinguish
// missing entities, invalid input, collaborator failures, and assembly
// consistency violations without parsing messages. Defined non-error
// outcomes ("no repetition found", "score unimproved") are never
// represented as errors.
package services
