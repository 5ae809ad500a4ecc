// Copyright © 2024 The scenelint authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/scenelang/scenelint/diagnostic"
	"github.com/scenelang/scenelint/document"
)

// newRenderer returns a renderer that reads source lines from the checked
// results rather than from disk, so stdin and files changed since the check
// render what was validated.
func newRenderer(mode diagnostic.ColorMode, results []fileResult) *diagnostic.Renderer {
	sources := make(map[string]*document.Text, len(results))
	for _, res := range results {
		sources[res.path] = res.text
	}
	return &diagnostic.Renderer{
		Color: mode,
		SourceReader: func(name string) ([]byte, error) {
			text, ok := sources[name]
			if !ok {
				return nil, os.ErrNotExist
			}
			return []byte(text.Content()), nil
		},
	}
}

// renderResults renders the diagnostics of every result to w followed by a
// one-line summary.
func renderResults(w io.Writer, mode diagnostic.ColorMode, results []fileResult) error {
	r := newRenderer(mode, results)
	var ds []diagnostic.Diagnostic
	var errs, warns int
	for _, res := range results {
		for _, d := range diagnostic.FromLintAll(res.path, res.text, res.diags) {
			if d.Severity == diagnostic.SeverityError {
				errs++
			} else {
				warns++
			}
			d.Notes = append(d.Notes, "to suppress: --disable="+d.Code)
			ds = append(ds, d)
		}
	}
	if len(ds) == 0 {
		return nil
	}
	if err := r.RenderAll(w, ds); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s in %s\n", plural(errs+warns, "problem"), plural(len(results), "file"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "(%s, %s)\n", plural(errs, "error"), plural(warns, "warning"))
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
