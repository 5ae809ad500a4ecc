// Copyright © 2024 The scenelint authors

package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/scenelang/scenelint/parser"
)

// Unbounded marks a rule without an argument limit.
const Unbounded = -1

// ValidateFunc checks the meaning of a form whose keyword it is registered
// for. span is the absolute byte range of the whole form and labels holds
// every label declared in the script.
type ValidateFunc func(f parser.Form, span Span, labels parser.Labels) []Finding

// Rule is the argument bounds and semantic check for a keyword.
type Rule struct {
	MinArgs int
	MaxArgs int // Unbounded for no limit
	Doc     string

	Validate ValidateFunc
}

// Arity describes the accepted argument count in words.
func (r Rule) Arity() string {
	switch {
	case r.MaxArgs == Unbounded:
		return fmt.Sprintf("at least %d", r.MinArgs)
	case r.MinArgs == r.MaxArgs:
		return fmt.Sprintf("exactly %d", r.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", r.MinArgs, r.MaxArgs)
	}
}

// Rules maps each keyword to its rule. It is never modified and may be
// shared between concurrent validations.
var Rules = map[string]Rule{
	"label": {
		MinArgs: 1, MaxArgs: Unbounded,
		Doc:      "(label NAME) declares a jump target. Each name may be declared once.",
		Validate: validateLabel,
	},
	"dialogue": {
		MinArgs: 1, MaxArgs: 3,
		Doc:      `(dialogue "TEXT" [speaker NAME]) shows a line of dialogue, optionally attributed to a speaker.`,
		Validate: validateDialogue,
	},
	"choice": {
		MinArgs: 1, MaxArgs: Unbounded,
		Doc: "(choice OPTION...) offers the reader a set of options.",
	},
	"say": {
		MinArgs: 1, MaxArgs: 1,
		Doc: "(say TEXT) shows narration text.",
	},
	"sound": {
		MinArgs: 1, MaxArgs: 1,
		Doc: "(sound NAME) plays a sound.",
	},
	"bg": {
		MinArgs: 1, MaxArgs: 1,
		Doc: "(bg NAME) changes the background.",
	},
	"char": {
		MinArgs: 1, MaxArgs: 3,
		Doc: "(char NAME [POSE [POSITION]]) shows a character.",
	},
	"after": {
		MinArgs: 1, MaxArgs: Unbounded,
		Doc:      "(after ACTION ...) runs an action once the current step completes. ACTION is load, jump, end or an inline (set ...).",
		Validate: validateAfter,
	},
	"jump": {
		MinArgs: 1, MaxArgs: 1,
		Doc:      "(jump LABEL) continues at LABEL. (jump end) ends the script.",
		Validate: validateJump,
	},
	"start": {
		MinArgs: 1, MaxArgs: 1,
		Doc:      "(start LABEL) names the label the script begins at. A script has exactly one.",
		Validate: validateStart,
	},
	"set": {
		MinArgs: 2, MaxArgs: Unbounded,
		Doc:      "(set NAME VALUE...) assigns a variable.",
		Validate: validateSet,
	},
	"end": {
		MinArgs: 0, MaxArgs: 0,
		Doc: "(end) ends the script.",
	},
	"exp": {
		MinArgs: 1, MaxArgs: 1,
		Doc: "(exp EXPRESSION) evaluates an expression.",
	},
}

// Operators may appear in keyword position for arithmetic and assignment.
// They have no arity or semantic checks.
var Operators = map[string]bool{
	"=": true,
	"+": true,
	"-": true,
	"*": true,
	"/": true,
	"%": true,
}

// IsKnown reports whether kw is a keyword or operator.
func IsKnown(kw string) bool {
	_, ok := Rules[kw]
	return ok || Operators[kw]
}

// Keywords returns every keyword in sorted order.
func Keywords() []string {
	kws := make([]string, 0, len(Rules))
	for kw := range Rules {
		kws = append(kws, kw)
	}
	sort.Strings(kws)
	return kws
}

var (
	labelName = regexp.MustCompile(`^[A-Za-z][\w-]*$`)
	varName   = regexp.MustCompile(`^[A-Za-z_][\w-]*$`)
)

// IsLabelName reports whether name is a well-formed label name: a letter
// followed by letters, digits, underscores or hyphens.
func IsLabelName(name string) bool {
	return labelName.MatchString(name)
}

// afterActions are the first arguments after accepts. An inline set form
// tokenizes as "(set".
var afterActions = map[string]bool{
	"load": true,
	"jump": true,
	"end":  true,
	"(set": true,
}

// A name declared more than once is reported at every declaration except
// the first.
func validateLabel(f parser.Form, span Span, labels parser.Labels) []Finding {
	if f.ArgCount() < 1 {
		return nil
	}
	name := f.Arg(0)
	var out []Finding
	if labels.Count(name) > 1 {
		out = append(out, Finding{
			Check:    CheckLabel,
			Severity: SeverityError,
			Span:     span,
			Message:  fmt.Sprintf("Duplicate label '%s'", name),
		})
	}
	if !IsLabelName(name) {
		out = append(out, Finding{
			Check:    CheckLabel,
			Severity: SeverityWarning,
			Span:     span,
			Message:  fmt.Sprintf("Label '%s' should start with a letter and contain only letters, digits, underscores or hyphens", name),
		})
	}
	return out
}

func validateDialogue(f parser.Form, span Span, _ parser.Labels) []Finding {
	if f.ArgCount() < 1 {
		return nil
	}
	var out []Finding
	text := f.Arg(0)
	switch {
	case !parser.IsQuoted(text):
		out = append(out, Finding{Check: CheckDialogue, Severity: SeverityError, Span: span, Message: MsgDialogueQuote})
	case strings.TrimSpace(parser.Unquote(text)) == "":
		out = append(out, Finding{Check: CheckDialogue, Severity: SeverityWarning, Span: span, Message: MsgEmptyDialogue})
	}
	if f.ArgCount() == 3 {
		if f.Arg(1) != "speaker" {
			out = append(out, Finding{Check: CheckDialogue, Severity: SeverityError, Span: span, Message: MsgSpeakerKeyword})
		}
		if strings.TrimSpace(parser.Unquote(f.Arg(2))) == "" {
			out = append(out, Finding{Check: CheckDialogue, Severity: SeverityError, Span: span, Message: MsgSpeakerRequired})
		}
	}
	return out
}

func validateAfter(f parser.Form, span Span, _ parser.Labels) []Finding {
	if f.ArgCount() < 1 || afterActions[f.Arg(0)] {
		return nil
	}
	return []Finding{{
		Check:    CheckAfter,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf("after must be followed by load, jump, end or (set, got '%s'", f.Arg(0)),
	}}
}

func validateJump(f parser.Form, span Span, labels parser.Labels) []Finding {
	if f.ArgCount() < 1 {
		return nil
	}
	target := f.Arg(0)
	if target == "end" || labels.Has(target) {
		return nil
	}
	return []Finding{{
		Check:    CheckJump,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf("Undefined label '%s'", target),
	}}
}

func validateStart(f parser.Form, span Span, labels parser.Labels) []Finding {
	if f.ArgCount() < 1 || labels.Has(f.Arg(0)) {
		return nil
	}
	return []Finding{{
		Check:    CheckStart,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf("Undefined label '%s'", f.Arg(0)),
	}}
}

func validateSet(f parser.Form, span Span, _ parser.Labels) []Finding {
	if f.ArgCount() < 1 || varName.MatchString(f.Arg(0)) {
		return nil
	}
	return []Finding{{
		Check:    CheckSet,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf("Invalid variable name '%s'", f.Arg(0)),
	}}
}
