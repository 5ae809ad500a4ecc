// Copyright © 2024 The scenelint authors

package diagnostic

import (
	"github.com/scenelang/scenelint/document"
	"github.com/scenelang/scenelint/lint"
)

// FromLint converts a lint diagnostic found in text to a renderable
// diagnostic whose span points into file. Columns are byte based. A span
// that continues past its first line is underlined to the end of that line.
func FromLint(file string, text *document.Text, ld lint.Diagnostic) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Code:     ld.Check,
		Message:  ld.Message,
	}
	if ld.Severity == lint.SeverityWarning {
		d.Severity = SeverityWarning
	}
	line := ld.Range.Start.Line
	lineStart := text.OffsetAt(line, 0)
	span := Span{
		File: file,
		Line: line + 1,
		Col:  ld.Span.Start - lineStart + 1,
	}
	if ld.Range.End.Line == line && ld.Span.End > ld.Span.Start {
		span.EndCol = ld.Span.End - lineStart
	} else {
		span.EndCol = len(text.Line(line))
	}
	if span.EndCol < span.Col {
		span.EndCol = span.Col
	}
	d.Spans = append(d.Spans, span)
	return d
}

// FromLintAll converts every diagnostic of one file.
func FromLintAll(file string, text *document.Text, diags []lint.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, ld := range diags {
		out = append(out, FromLint(file, text, ld))
	}
	return out
}
