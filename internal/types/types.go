// Package types provides shared types used across the dictascore codebase.
// It sits at the bottom of the dependency graph and imports no other internal
// packages.
package types

import "fmt"

// ValidationError is a problem found in a config file or answer sheet.
type ValidationError struct {
	File     string `json:"file,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning, info
	Line     int    `json:"line,omitempty"`
}

func (e ValidationError) String() string {
	loc := e.File
	if loc != "" && e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", loc, e.Severity, e.Message)
}

// Severity level constants.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// HasErrors reports whether any issue is an error.
func HasErrors(issues []ValidationError) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
