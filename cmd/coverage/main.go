package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
	uc "github.com/specvital/agent-coverage/internal/usecase/coverage"

	_ "github.com/specvital/core/pkg/parser/strategies/all"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(exitWithDiagnostic(os.Stdout, err))
	}
}

// exitWithDiagnostic prints the one-line diagnostic for err and returns the exit code.
func exitWithDiagnostic(w io.Writer, err error) int {
	switch {
	case errors.Is(err, coverage.ErrInvalidInput), errors.Is(err, uc.ErrManifestFailed):
		fmt.Fprintln(w, "Invalid file input, exiting.")
	case errors.Is(err, coverage.ErrInvalidTestLocation), errors.Is(err, uc.ErrDiscoveryFailed):
		fmt.Fprintln(w, "Invalid tests location input is observed, exiting.")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	slog.Error("coverage failed", "error", err)
	return 1
}
