// Copyright © 2024 The scenelint authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the column notes are wrapped at when Renderer.Width is 0.
const DefaultWidth = 80

// notePrefix is the width of "   = note: ".
const notePrefix = 11

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// Width is the column notes wrap at. Zero means DefaultWidth.
	Width int

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s note: %s\n", p.boldCyan.Sprint("="), r.wrapNote(note))
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	sev := d.Severity.String()
	if d.Code != "" {
		sev = fmt.Sprintf("%s[%s]", sev, d.Code)
	}
	switch d.Severity {
	case SeverityError:
		sev = p.boldRed.Sprint(sev)
	case SeverityWarning:
		sev = p.yellow.Sprint(sev)
	case SeverityNote:
		sev = p.boldCyan.Sprint(sev)
	}
	ew.printf("%s: %s\n", sev, p.bold.Sprint(d.Message))
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s %s\n", p.boldBlue.Sprint("-->"), loc)

	source := r.readSourceLine(span.File, span.Line)
	if source == "" {
		ew.printf("   %s\n", p.boldBlue.Sprint("|"))
		return
	}

	lineStr := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineStr))
	gutter := p.boldBlue.Sprint(pad + " |")

	ew.printf(" %s\n", gutter)
	displaySource := strings.ReplaceAll(source, "\t", "    ")
	ew.printf(" %s  %s\n", p.boldBlue.Sprint(lineStr+" |"), displaySource)

	col := span.Col
	endCol := span.EndCol
	if col <= 0 {
		col = 1
	}
	if endCol <= 0 {
		endCol = detectEndCol(source, col)
	}
	if endCol < col {
		endCol = col
	}
	prefix := ""
	if col > 1 && col-1 <= len(source) {
		prefix = source[:col-1]
	}
	marked := ""
	if col-1 < len(source) {
		marked = source[col-1 : min(endCol, len(source))]
	}
	underline := strings.Repeat("^", max(1, displayWidth(marked)))

	ew.printf(" %s  %s%s", gutter, strings.Repeat(" ", displayWidth(prefix)), p.boldRed.Sprint(underline))
	if span.Label != "" {
		ew.printf(" %s", p.boldRed.Sprint(span.Label))
	}
	ew.print("\n")
	ew.printf(" %s\n", gutter)
}

// wrapNote wraps note to the renderer width, aligning continuation lines
// with the first line of text.
func (r *Renderer) wrapNote(note string) string {
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	wrapped := wordwrap.String(note, max(20, width-notePrefix))
	return strings.TrimPrefix(indent.String(wrapped, notePrefix), strings.Repeat(" ", notePrefix))
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return strings.TrimSuffix(scanner.Text(), "\r")
		}
	}
	return ""
}

// detectEndCol scans from col to the end of the token there and returns its
// last column.
func detectEndCol(source string, col int) int {
	if col <= 0 || col > len(source) {
		return col
	}
	end := col - 1
	for end < len(source) {
		ch, size := utf8.DecodeRuneInString(source[end:])
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		end += size
	}
	if end == col-1 {
		return col
	}
	return end
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
