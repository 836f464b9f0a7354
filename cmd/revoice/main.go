package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	svc "revoice/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes caller mistakes, which can be corrected and
// retried as-is, from failures that aborted mid-work.
func exitCode(err error) int {
	if svc.Recoverable(err) {
		return 2
	}
	return 1
}
