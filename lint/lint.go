// Copyright © 2024 The scenelint authors

// Package lint statically validates scene scripts.
//
// A script is a sequence of parenthesized forms such as
//
//	(label intro)
//	(dialogue "Hello there" speaker Ann)
//	(after (set met-ann 1))
//	(jump intro)
//
// Validation never stops early and never modifies its input: every problem
// found becomes a Diagnostic. The checks are a delimiter balance count, a
// structural walk that validates each form against the keyword rule table,
// and a few whole-script checks (start cardinality, dialogue quoting).
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/scenelang/scenelint/parser"
)

// DefaultSource is the source tag attached to diagnostics.
const DefaultSource = "scenelint"

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Span is a half-open byte range [Start, End) in the script text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Position is a 0-based line and character.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// String returns the position as 1-based line:col, the way editors and
// compilers print locations.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// Range is a start and end position.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Source   string   `json:"source"`

	// Check is the name of the check that found the problem.
	Check string `json:"check"`

	// Span is the byte range the range was computed from.
	Span Span `json:"span"`
}

// String returns the diagnostic as line:col: severity: message (check).
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Range.Start, d.Severity, d.Message, d.Check)
}

// PositionMapper converts byte offsets into the script text to line and
// character positions. It is implemented by document.Text.
type PositionMapper interface {
	PositionAt(offset int) (line, character int)
}

// Messages shared between checks. The walker's dialogue validator and the
// whole-script dialogue rescan report the same text at the same offset so
// the sink keeps only one of them.
const (
	MsgMissingStart    = "Script must contain a start"
	MsgMultipleStart   = "Script must contain only one start"
	MsgDialogueQuote   = "Dialogue text must be quoted"
	MsgEmptyDialogue   = "Empty dialogue"
	MsgSpeakerKeyword  = "Dialogue should use speaker before the speaker name"
	MsgSpeakerRequired = "Speaker name is required"
)

var (
	startDecl        = regexp.MustCompile(`\(\s*start(?:\s|\))`)
	unquotedDialogue = regexp.MustCompile(`\(\s*dialogue\s+[^"\s)]`)
)

// Validate runs a full validation of text and adds every finding to sink.
func Validate(sink *Sink, text string) {
	opens := strings.Count(text, "(")
	closes := strings.Count(text, ")")
	if opens != closes {
		sink.Add(Finding{
			Check:    CheckBalance,
			Severity: SeverityError,
			Span:     Span{Start: 0, End: min(1, len(text))},
			Message:  fmt.Sprintf("Unbalanced parentheses: %d opening and %d closing", opens, closes),
		})
	}

	w := &walker{sink: sink, labels: parser.ExtractLabels(text)}
	w.walk(text)

	starts := startDecl.FindAllStringIndex(text, -1)
	switch {
	case len(starts) == 0:
		sink.Add(Finding{
			Check:    CheckMissingStart,
			Severity: SeverityError,
			Span:     Span{Start: 0, End: min(1, len(text))},
			Message:  MsgMissingStart,
		})
	case len(starts) > 1:
		at := starts[1][0]
		sink.Add(Finding{
			Check:    CheckMultipleStart,
			Severity: SeverityError,
			Span:     Span{Start: at, End: at + strings.Index(text[at:], "start") + len("start")},
			Message:  MsgMultipleStart,
		})
	}

	for _, m := range unquotedDialogue.FindAllStringIndex(text, -1) {
		sink.Add(Finding{
			Check:    CheckDialogueQuote,
			Severity: SeverityError,
			Span:     Span{Start: m[0], End: m[1]},
			Message:  MsgDialogueQuote,
		})
	}
}

// Linter validates scripts with a fixed configuration. The zero value
// reports every check with the default source tag.
type Linter struct {
	// Source is the tag attached to diagnostics. Empty means DefaultSource.
	Source string

	// Disabled lists check names whose findings are dropped.
	Disabled []string
}

// NewSink returns an empty sink configured like l.
func (l *Linter) NewSink(pm PositionMapper) *Sink {
	return NewSink(pm, WithSource(l.Source), WithDisabled(l.Disabled...))
}

// Lint validates text and returns its diagnostics in report order.
func (l *Linter) Lint(text string, pm PositionMapper) []Diagnostic {
	sink := l.NewSink(pm)
	Validate(sink, text)
	return sink.Diagnostics()
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FormatText writes diagnostics as file:line:col: severity: message (check).
func FormatText(w io.Writer, filename string, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%s\n", filename, d) //nolint:errcheck // best-effort output to writer
	}
}

// FileDiagnostics groups the diagnostics of one file for JSON output.
type FileDiagnostics struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// FormatJSON writes results as JSON.
func FormatJSON(w io.Writer, results []FileDiagnostics) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
