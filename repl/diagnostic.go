// Copyright © 2024 The scenelint authors

package repl

import (
	"fmt"
	"io"
	"os"

	"github.com/scenelang/scenelint/diagnostic"
	"github.com/scenelang/scenelint/document"
)

// replFile is the display name of REPL input in rendered diagnostics.
const replFile = "<repl>"

// renderEntry writes the diagnostics of entry, or "ok" when there are none.
func renderEntry(w io.Writer, color diagnostic.ColorMode, entry Entry) {
	if len(entry.Diagnostics) == 0 {
		fmt.Fprintln(w, "ok") //nolint:errcheck // best-effort REPL output
		return
	}
	r := &diagnostic.Renderer{
		Color: color,
		SourceReader: func(name string) ([]byte, error) {
			if name != replFile {
				return nil, os.ErrNotExist
			}
			return []byte(entry.Text), nil
		},
	}
	_ = r.RenderAll(w, entryDiagnostics(entry))
	if !entry.Kept {
		fmt.Fprintln(w, "entry discarded") //nolint:errcheck // best-effort REPL output
	}
}

// entryDiagnostics converts the diagnostics of an entry for rendering.
// Spans point at a pseudo file holding the entry text.
func entryDiagnostics(entry Entry) []diagnostic.Diagnostic {
	return diagnostic.FromLintAll(replFile, document.New(entry.Text), entry.Diagnostics)
}
