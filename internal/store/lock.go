package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"revoice/internal/services"
)

// AcquireProgramLock takes the exclusive per-program lock that keeps
// assembly and utterance appends from interleaving on one program. The
// returned release function must be called when the unit of work finishes.
// A program already held by another worker fails immediately rather than
// queueing behind it.
func (s *Store) AcquireProgramLock(programID int64) (release func(), err error) {
	lockDir := filepath.Join(filepath.Dir(s.path), "locks")
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(filepath.Join(lockDir, fmt.Sprintf("program_%d.lock", programID)))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire program lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConsistency, "store", "lock",
			fmt.Sprintf("program %d is busy (assembly and synthesis are mutually exclusive)", programID), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}
