// Copyright © 2024 The scenelint authors

// Package diagnostic provides Rust-style annotated rendering of scene script
// diagnostics for CLI output. It does not depend on the lint package, so the
// check and repl commands convert lint results into Diagnostic values
// themselves.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column, in bytes
	EndCol int    // 1-based inclusive end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Code     string // check name shown as error[code]
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines, wrapped to the renderer width
}
