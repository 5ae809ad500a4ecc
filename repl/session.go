// Copyright © 2024 The scenelint authors

package repl

import (
	"strings"

	"github.com/scenelang/scenelint/document"
	"github.com/scenelang/scenelint/lint"
	"github.com/scenelang/scenelint/parser"
)

// Entry is one complete input and the diagnostics it produced.
type Entry struct {
	// Text is the entry as typed, lines joined with newlines.
	Text string
	// Diagnostics holds the problems located inside the entry. Spans and
	// ranges are relative to Text.
	Diagnostics []lint.Diagnostic
	// Kept reports whether the entry became part of the session.
	Kept bool
}

// Session accumulates entered forms and validates each new entry in the
// context of everything entered before it, so jumps may target labels
// declared in earlier entries. A session is not a whole script, so the
// missing-start check is disabled.
type Session struct {
	linter  *lint.Linter
	text    string
	pending []string
}

// NewSession returns an empty session validating with l. A nil l uses the
// default configuration.
func NewSession(l *lint.Linter) *Session {
	cfg := lint.Linter{}
	if l != nil {
		cfg = *l
	}
	cfg.Disabled = append(append([]string(nil), cfg.Disabled...), lint.CheckMissingStart)
	return &Session{linter: &cfg}
}

// Text returns every kept entry, separated by newlines.
func (s *Session) Text() string {
	return s.text
}

// Pending reports whether a partial entry is waiting for more lines.
func (s *Session) Pending() bool {
	return len(s.pending) > 0
}

// Labels returns the labels declared in the session and the pending entry.
func (s *Session) Labels() []string {
	return parser.ExtractLabels(s.text + "\n" + strings.Join(s.pending, "\n")).Unique()
}

// Reset discards the session and any pending input.
func (s *Session) Reset() {
	s.text = ""
	s.pending = nil
}

// Feed adds a line of input. Lines accumulate until the entry has at least
// as many closing as opening parentheses; Feed then validates the entry
// and returns it with ok set. Blank lines outside an entry are ignored.
//
// An entry with more closing than opening parentheses is validated on its
// own and not kept, so it cannot unbalance later entries.
func (s *Session) Feed(line string) (entry Entry, ok bool) {
	if !s.Pending() && strings.TrimSpace(line) == "" {
		return Entry{}, false
	}
	s.pending = append(s.pending, line)
	text := strings.Join(s.pending, "\n")
	opens, closes := strings.Count(text, "("), strings.Count(text, ")")
	if opens > closes {
		return Entry{}, false
	}
	s.pending = nil

	if closes > opens {
		return Entry{
			Text:        text,
			Diagnostics: s.linter.Lint(text, document.New(text)),
		}, true
	}

	base := 0
	full := text
	if s.text != "" {
		base = len(s.text) + 1
		full = s.text + "\n" + text
	}
	entryDoc := document.New(text)
	var diags []lint.Diagnostic
	for _, d := range s.linter.Lint(full, document.New(full)) {
		if d.Span.Start < base {
			continue
		}
		d.Span.Start -= base
		d.Span.End -= base
		d.Range = lint.Range{
			Start: position(entryDoc, d.Span.Start),
			End:   position(entryDoc, d.Span.End),
		}
		diags = append(diags, d)
	}
	s.text = full
	return Entry{Text: text, Diagnostics: diags, Kept: true}, true
}

func position(t *document.Text, offset int) lint.Position {
	line, char := t.PositionAt(offset)
	return lint.Position{Line: line, Character: char}
}
