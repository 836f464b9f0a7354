package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks references to absent programs, utterances, or speakers.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed input such as empty titles or speaker names.
	ErrValidation = errors.New("validation error")
	// ErrAlreadyCompleted marks re-synthesis of a program that already has utterances.
	ErrAlreadyCompleted = errors.New("already completed")
	// ErrCollaborator marks an ASR/TTS/mux call that failed or returned unusable output.
	ErrCollaborator = errors.New("collaborator failure")
	// ErrConsistency marks a violated assembly invariant, such as a missing
	// audio artifact or mismatched speaker-track lengths.
	ErrConsistency = errors.New("consistency error")
	// ErrTimeout marks a collaborator call stopped by its deadline.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error message that includes pipeline context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrCollaborator
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether the error leaves persisted state intact and
// the unit of work can simply be retried or surfaced. NotFound and
// Validation errors are caller mistakes; everything else aborted mid-work.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrAlreadyCompleted)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
