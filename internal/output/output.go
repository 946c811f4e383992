// Package output renders grading reports and single scores.
package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Version is reported in machine-readable output. Set at build time with
// -ldflags "-X github.com/dotcommander/dictascore/internal/output.Version=...".
var Version = "dev"

// writeOutput writes content to outputFile when set, else to w.
func writeOutput(w io.Writer, outputFile string, content []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, content, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		return nil
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
