// Copyright © 2024 The scenelint authors

package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/scenelang/scenelint/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lintSource validates source with the default configuration.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	l := &Linter{}
	return l.Lint(source, document.New(source))
}

// byCheck returns the diagnostics reported by the named check.
func byCheck(diags []Diagnostic, check string) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Check == check {
			out = append(out, d)
		}
	}
	return out
}

// assertHasDiag checks that at least one diagnostic contains the given substring.
func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, msgs)
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		t.Errorf("expected no diagnostics, got %d: %v", len(diags), msgs)
	}
}

// withStart prefixes source with a valid start so whole-script checks stay quiet.
func withStart(source string) string {
	return "(label main)\n(start main)\n" + source
}

// --- Position / Diagnostic ---

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "1:1", Position{}.String())
	assert.Equal(t, "3:7", Position{Line: 2, Character: 6}.String())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Range:    Range{Start: Position{Line: 9, Character: 0}},
		Severity: SeverityError,
		Message:  "Undefined label 'x'",
		Check:    CheckJump,
	}
	assert.Equal(t, "10:1: error: Undefined label 'x' (jump)", d.String())
}

func TestSeverity_JSON(t *testing.T) {
	b, err := json.Marshal(SeverityWarning)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))

	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"error"`), &s))
	assert.Equal(t, SeverityError, s)
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
}

// --- clean scripts ---

func TestLint_CleanScript(t *testing.T) {
	source := `(label intro)
(start intro)
(bg forest)
(char Ann happy left)
(dialogue "Hello there" speaker Ann)
(dialogue "Who are you?")
(say "The wind blows.")
(sound wind)
(choice (jump outro) (after (set met_ann 1)))
(exp score)
(+ score 1)
(label outro)
(jump end)
(end)`
	assertNoDiags(t, lintSource(t, source))
}

func TestLint_NeverModifiesInput(t *testing.T) {
	source := "(dialogue hello"
	orig := strings.Clone(source)
	lintSource(t, source)
	assert.Equal(t, orig, source)
}

// --- balance ---

func TestBalance_Mismatch(t *testing.T) {
	diags := byCheck(lintSource(t, withStart("(say a\n(say (b)")), CheckBalance)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "5 opening")
	assert.Contains(t, diags[0].Message, "3 closing")
	assert.Equal(t, Span{Start: 0, End: 1}, diags[0].Span)
}

func TestBalance_EqualCountsMalformed(t *testing.T) {
	// Equal counts pass the balance check even when the nesting is wrong.
	diags := lintSource(t, withStart(")(say a)("))
	assert.Empty(t, byCheck(diags, CheckBalance))
}

// --- unknown keyword ---

func TestUnknownKeyword(t *testing.T) {
	diags := lintSource(t, "(foo a)")
	unknown := byCheck(diags, CheckUnknownKeyword)
	require.Len(t, unknown, 1)
	assert.Equal(t, SeverityError, unknown[0].Severity)
	assert.Equal(t, Span{Start: 0, End: 7}, unknown[0].Span)
	assert.Equal(t, Position{Line: 0, Character: 0}, unknown[0].Range.Start)
	assert.Equal(t, Position{Line: 0, Character: 7}, unknown[0].Range.End)
	assert.Contains(t, unknown[0].Message, "foo")
}

func TestUnknownKeyword_Operators(t *testing.T) {
	for _, op := range []string{"=", "+", "-", "*", "/", "%"} {
		diags := lintSource(t, withStart(fmt.Sprintf("(%s a b c d)", op)))
		assertNoDiags(t, diags)
	}
}

func TestUnknownKeyword_EmptyFormSkipped(t *testing.T) {
	assertNoDiags(t, lintSource(t, withStart("()\n(   )")))
}

// --- arity ---

func TestArity(t *testing.T) {
	diags := byCheck(lintSource(t, "(say)"), CheckArity)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assertHasDiag(t, diags, "Too few args")

	diags = byCheck(lintSource(t, "(say a b)"), CheckArity)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assertHasDiag(t, diags, "Too many args")

	assert.Empty(t, byCheck(lintSource(t, "(say a)"), CheckArity))
}

func TestArity_Table(t *testing.T) {
	tests := []struct {
		source string
		sev    Severity // 0 means no arity diagnostic
	}{
		{"(end)", 0},
		{"(end now)", SeverityWarning},
		{"(char Ann)", 0},
		{"(char Ann happy left)", 0},
		{"(char Ann happy left extra)", SeverityWarning},
		{"(char)", SeverityError},
		{"(set x)", SeverityError},
		{"(set x 1 2 3)", 0},
		{"(choice a b c d e)", 0},
		{"(choice)", SeverityError},
		{"(bg)", SeverityError},
		{"(sound a b)", SeverityWarning},
		{"(exp)", SeverityError},
		{`(dialogue "a" speaker Ann extra)`, SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			diags := byCheck(lintSource(t, tt.source), CheckArity)
			if tt.sev == 0 {
				assertNoDiags(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, tt.sev, diags[0].Severity)
		})
	}
}

// --- label ---

func TestLabel_Duplicate(t *testing.T) {
	source := "(label intro)\n(label intro)\n(start intro)"
	diags := byCheck(lintSource(t, source), CheckLabel)
	require.Len(t, diags, 2)
	for i, d := range diags {
		assert.Equal(t, SeverityError, d.Severity)
		assert.Equal(t, "Duplicate label 'intro'", d.Message)
		assert.Equal(t, i, d.Range.Start.Line)
	}
}

func TestLabel_DuplicateEveryDeclaration(t *testing.T) {
	source := "(label intro)\n(label intro)\n(choice (label intro))"
	diags := byCheck(lintSource(t, source), CheckLabel)
	require.Len(t, diags, 3)
	assert.Equal(t, 0, diags[0].Span.Start)
	assert.Equal(t, strings.Index(source, "(label intro)\n(choice"), diags[1].Span.Start)
	assert.Equal(t, strings.LastIndex(source, "(label intro)"), diags[2].Span.Start)
}

func TestLabel_DistinctNamesNotDuplicates(t *testing.T) {
	source := "(label intro)\n(label outro)"
	assert.Empty(t, byCheck(lintSource(t, source), CheckLabel))
}

func TestLabel_Single(t *testing.T) {
	assert.Empty(t, byCheck(lintSource(t, "(label intro)"), CheckLabel))
}

func TestLabel_Naming(t *testing.T) {
	for _, name := range []string{"1abc", "_x", "a.b", `"quoted"`} {
		diags := byCheck(lintSource(t, "(label "+name+")"), CheckLabel)
		require.Len(t, diags, 1, name)
		assert.Equal(t, SeverityWarning, diags[0].Severity)
	}
	for _, name := range []string{"a", "scene-2", "Chapter_1"} {
		assert.Empty(t, byCheck(lintSource(t, "(label "+name+")"), CheckLabel), name)
	}
}

// --- dialogue ---

func TestDialogue(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string // "" means no dialogue diagnostic
		sev     Severity
	}{
		{"unquoted", "(dialogue hello)", MsgDialogueQuote, SeverityError},
		{"empty", `(dialogue "")`, MsgEmptyDialogue, SeverityWarning},
		{"blank", `(dialogue "   ")`, MsgEmptyDialogue, SeverityWarning},
		{"speaker", `(dialogue "hi" speaker Ann)`, "", 0},
		{"wrong speaker keyword", `(dialogue "hi" foo Ann)`, MsgSpeakerKeyword, SeverityError},
		{"blank speaker", `(dialogue "hi" speaker "")`, MsgSpeakerRequired, SeverityError},
		{"two args", `(dialogue "hi" Ann)`, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := lintSource(t, withStart(tt.source))
			if tt.message == "" {
				assertNoDiags(t, diags)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, tt.message, diags[0].Message)
			assert.Equal(t, tt.sev, diags[0].Severity)
		})
	}
}

func TestDialogue_QuoteReportedOnce(t *testing.T) {
	// The walker and the whole-script rescan both see these forms.
	source := withStart("(dialogue hello)\n(choice (dialogue (say hi)))")
	diags := lintSource(t, source)
	var quote []Diagnostic
	for _, d := range diags {
		if d.Message == MsgDialogueQuote {
			quote = append(quote, d)
		}
	}
	require.Len(t, quote, 2)
	assert.Equal(t, strings.Index(source, "(dialogue hello"), quote[0].Span.Start)
	assert.Equal(t, strings.Index(source, "(dialogue (say"), quote[1].Span.Start)
}

func TestDialogue_UnclosedFormCaughtByRescan(t *testing.T) {
	source := withStart("(dialogue hello")
	diags := lintSource(t, source)
	quote := byCheck(diags, CheckDialogueQuote)
	require.Len(t, quote, 1)
	assert.Equal(t, strings.Index(source, "(dialogue"), quote[0].Span.Start)
	assert.Len(t, byCheck(diags, CheckBalance), 1)
}

// --- after / jump / start / set ---

func TestAfter(t *testing.T) {
	for _, action := range []string{"load", "jump", "end", "(set x 1)"} {
		diags := lintSource(t, withStart("(after "+action+")"))
		assertNoDiags(t, diags)
	}
	diags := byCheck(lintSource(t, "(after go)"), CheckAfter)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "'go'")
}

func TestJump(t *testing.T) {
	diags := byCheck(lintSource(t, "(jump nowhere)"), CheckJump)
	require.Len(t, diags, 1)
	assert.Equal(t, "Undefined label 'nowhere'", diags[0].Message)

	assert.Empty(t, byCheck(lintSource(t, "(jump end)"), CheckJump))
	// Labels declared later in the script are known.
	assert.Empty(t, byCheck(lintSource(t, "(jump later)\n(label later)"), CheckJump))
}

func TestStart(t *testing.T) {
	diags := lintSource(t, "(start nowhere)")
	require.Len(t, byCheck(diags, CheckStart), 1)
	assert.Empty(t, byCheck(diags, CheckMissingStart))

	// end is not a label.
	assert.Len(t, byCheck(lintSource(t, "(start end)"), CheckStart), 1)
}

func TestStart_Cardinality(t *testing.T) {
	diags := lintSource(t, "(label a)")
	missing := byCheck(diags, CheckMissingStart)
	require.Len(t, missing, 1)
	assert.Equal(t, MsgMissingStart, missing[0].Message)

	assertNoDiags(t, lintSource(t, "(label a)\n(start a)"))

	source := "(label a)\n(start a)\n(start a)\n(choice (start a))"
	multiple := byCheck(lintSource(t, source), CheckMultipleStart)
	require.Len(t, multiple, 1)
	second := strings.Index(source, "(start a)\n(choice")
	assert.Equal(t, Span{Start: second, End: second + len("(start")}, multiple[0].Span)
}

func TestStart_EmptyScript(t *testing.T) {
	diags := lintSource(t, "")
	require.Len(t, diags, 1)
	assert.Equal(t, CheckMissingStart, diags[0].Check)
	assert.Equal(t, Span{}, diags[0].Span)
}

func TestSet(t *testing.T) {
	for _, name := range []string{"x", "_x", "met-ann", "Score2"} {
		assert.Empty(t, byCheck(lintSource(t, "(set "+name+" 1)"), CheckSet), name)
	}
	for _, name := range []string{"1x", "-x", `"x"`} {
		diags := byCheck(lintSource(t, "(set "+name+" 1)"), CheckSet)
		require.Len(t, diags, 1, name)
		assert.Contains(t, diags[0].Message, name)
	}
}

func TestSet_InsideAfter(t *testing.T) {
	source := withStart("(after (set 9lives 1))")
	diags := lintSource(t, source)
	require.Len(t, diags, 1)
	assert.Equal(t, CheckSet, diags[0].Check)
	assert.Equal(t, strings.Index(source, "(set"), diags[0].Span.Start)
}

// --- nesting and offsets ---

func TestNested_AbsoluteOffsets(t *testing.T) {
	source := withStart("(say hi)\n(choice\n   (foo)   (jump nowhere))")
	diags := lintSource(t, source)
	require.Len(t, diags, 2)

	outerStart := strings.Index(source, "(choice")
	outerEnd := len(source)

	foo := byCheck(diags, CheckUnknownKeyword)
	require.Len(t, foo, 1)
	assert.Equal(t, strings.Index(source, "(foo)"), foo[0].Span.Start)
	assert.Equal(t, strings.Index(source, "(foo)")+len("(foo)"), foo[0].Span.End)
	assert.Equal(t, Position{Line: 4, Character: 3}, foo[0].Range.Start)

	jump := byCheck(diags, CheckJump)
	require.Len(t, jump, 1)
	assert.Equal(t, strings.Index(source, "(jump"), jump[0].Span.Start)

	for _, d := range diags {
		assert.Greater(t, d.Span.Start, outerStart)
		assert.Less(t, d.Span.End, outerEnd)
	}
}

func TestNested_EachFormOnce(t *testing.T) {
	diags := lintSource(t, withStart("(choice (choice (foo)))"))
	require.Len(t, diags, 1)
	assert.Equal(t, CheckUnknownKeyword, diags[0].Check)
}

func TestNested_InsideUnclosedForm(t *testing.T) {
	// The outer opener never closes; the inner form is still validated.
	source := withStart("(choice (foo)")
	diags := lintSource(t, source)
	unknown := byCheck(diags, CheckUnknownKeyword)
	require.Len(t, unknown, 1)
	assert.Equal(t, strings.Index(source, "(foo)"), unknown[0].Span.Start)
}

func TestNested_UnmatchedCloserIgnored(t *testing.T) {
	diags := lintSource(t, withStart(") (foo) )"))
	assert.Len(t, byCheck(diags, CheckUnknownKeyword), 1)
	assert.Len(t, byCheck(diags, CheckBalance), 1)
}

func TestNested_DeepFormsStillChecked(t *testing.T) {
	depth := 300
	source := withStart(strings.Repeat("(choice ", depth) + "(jump nowhere) (foo)" + strings.Repeat(")", depth))
	diags := lintSource(t, source)
	assert.Len(t, byCheck(diags, CheckJump), 1)
	assert.Len(t, byCheck(diags, CheckUnknownKeyword), 1)
	assert.Len(t, diags, 2)
}

func TestNested_InnerFormsReportFirst(t *testing.T) {
	source := withStart("(bogus (foo))")
	diags := byCheck(lintSource(t, source), CheckUnknownKeyword)
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0].Message, "'foo'")
	assert.Contains(t, diags[1].Message, "'bogus'")
}

func TestMatchPairs_CloseOrder(t *testing.T) {
	assert.Equal(t, []pair{{4, 5}, {2, 6}, {8, 9}}, matchPairs(") (a()) ()("))
}

// --- sink ---

type offsetMapper struct{}

func (offsetMapper) PositionAt(offset int) (int, int) { return 0, offset }

func TestSink_Dedup(t *testing.T) {
	s := NewSink(offsetMapper{})
	assert.True(t, s.Add(Finding{Check: CheckJump, Severity: SeverityError, Span: Span{Start: 3, End: 5}, Message: "m"}))
	assert.False(t, s.Add(Finding{Check: CheckJump, Severity: SeverityError, Span: Span{Start: 3, End: 5}, Message: "m"}))
	assert.Equal(t, 1, s.Len())
}

func TestSink_DedupIgnoresSeverityAndEnd(t *testing.T) {
	s := NewSink(offsetMapper{})
	s.Add(Finding{Check: CheckArity, Severity: SeverityError, Span: Span{Start: 3, End: 5}, Message: "m"})
	assert.False(t, s.Add(Finding{Check: CheckLabel, Severity: SeverityWarning, Span: Span{Start: 3, End: 9}, Message: "m"}))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, SeverityError, s.Diagnostics()[0].Severity)
}

func TestSink_KeepsDistinct(t *testing.T) {
	s := NewSink(offsetMapper{})
	s.Add(Finding{Check: CheckJump, Severity: SeverityError, Span: Span{Start: 3, End: 5}, Message: "m"})
	s.Add(Finding{Check: CheckJump, Severity: SeverityError, Span: Span{Start: 4, End: 5}, Message: "m"})
	s.Add(Finding{Check: CheckJump, Severity: SeverityError, Span: Span{Start: 3, End: 5}, Message: "n"})
	diags := s.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, "m", diags[0].Message)
	assert.Equal(t, 4, diags[1].Range.Start.Character)
	assert.Equal(t, "n", diags[2].Message)
}

func TestSink_Options(t *testing.T) {
	s := NewSink(offsetMapper{}, WithSource("story"), WithDisabled(CheckJump))
	assert.False(t, s.Add(Finding{Check: CheckJump, Severity: SeverityError, Message: "m"}))
	assert.True(t, s.Add(Finding{Check: CheckSet, Severity: SeverityError, Span: Span{Start: 5, End: 2}, Message: "m"}))
	d := s.Diagnostics()[0]
	assert.Equal(t, "story", d.Source)
	assert.Equal(t, Span{Start: 5, End: 5}, d.Span)

	assert.Equal(t, DefaultSource, NewSink(offsetMapper{}, WithSource("")).source)
}

func TestSink_DiagnosticsIsCopy(t *testing.T) {
	s := NewSink(offsetMapper{})
	s.Add(Finding{Check: CheckSet, Severity: SeverityError, Message: "m"})
	diags := s.Diagnostics()
	diags[0].Message = "changed"
	assert.Equal(t, "m", s.Diagnostics()[0].Message)
}

// --- linter ---

func TestLinter_Options(t *testing.T) {
	l := &Linter{Source: "story", Disabled: []string{CheckMissingStart}}
	diags := l.Lint("(jump nowhere)", document.New("(jump nowhere)"))
	require.Len(t, diags, 1)
	assert.Equal(t, "story", diags[0].Source)
	assert.Equal(t, CheckJump, diags[0].Check)
}

func TestLinter_DefaultSource(t *testing.T) {
	diags := lintSource(t, "")
	require.Len(t, diags, 1)
	assert.Equal(t, DefaultSource, diags[0].Source)
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Diagnostic{{Severity: SeverityWarning}}))
	assert.True(t, HasErrors([]Diagnostic{{Severity: SeverityWarning}, {Severity: SeverityError}}))
}

// --- output ---

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	FormatText(&buf, "intro.scene", lintSource(t, "(foo)"))
	out := buf.String()
	assert.Contains(t, out, "intro.scene:1:1: error: Unknown keyword 'foo' (unknown-keyword)")
	assert.Contains(t, out, "intro.scene:1:1: error: Script must contain a start (missing-start)")
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	err := FormatJSON(&buf, []FileDiagnostics{{File: "a.scene", Diagnostics: lintSource(t, "(foo)")}})
	require.NoError(t, err)

	var decoded []FileDiagnostics
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Len(t, decoded[0].Diagnostics, 2)
	assert.Equal(t, SeverityError, decoded[0].Diagnostics[0].Severity)
	assert.Equal(t, CheckUnknownKeyword, decoded[0].Diagnostics[0].Check)
	assert.Contains(t, buf.String(), `"severity": "error"`)
}

// --- rule table ---

func TestRules_Arity(t *testing.T) {
	assert.Equal(t, "exactly 1", Rules["say"].Arity())
	assert.Equal(t, "1 to 3", Rules["dialogue"].Arity())
	assert.Equal(t, "at least 2", Rules["set"].Arity())
	assert.Equal(t, "exactly 0", Rules["end"].Arity())
}

func TestRules_Keywords(t *testing.T) {
	kws := Keywords()
	assert.Len(t, kws, len(Rules))
	assert.Equal(t, "after", kws[0])
	for _, kw := range kws {
		assert.True(t, IsKnown(kw))
		assert.NotEmpty(t, Rules[kw].Doc, kw)
	}
	assert.True(t, IsKnown("%"))
	assert.False(t, IsKnown("foo"))
}

func TestChecks(t *testing.T) {
	names := CheckNames()
	assert.Contains(t, names, CheckBalance)
	assert.True(t, IsCheck(CheckDialogueQuote))
	assert.False(t, IsCheck("nope"))
	doc := CheckDoc()
	for _, c := range Checks() {
		assert.Contains(t, doc, c.Name)
	}
}

func TestIsLabelName(t *testing.T) {
	assert.True(t, IsLabelName("chapter-1"))
	assert.False(t, IsLabelName("1chapter"))
	assert.False(t, IsLabelName(""))
}
