// Copyright © 2024 The scenelint authors

package lint

import (
	"fmt"
	"strings"

	"github.com/scenelang/scenelint/parser"
)

// walker validates every matched form in a script.
type walker struct {
	sink   *Sink
	labels parser.Labels
}

// pair is a matched pair of parentheses, as byte offsets into the script.
type pair struct {
	open  int
	close int
}

// walk validates every matched form of text in the order the forms close,
// so a nested form is reported before the form that contains it. The
// opener stack is explicit and nesting depth is unbounded.
func (w *walker) walk(text string) {
	for _, p := range matchPairs(text) {
		w.form(text, p)
	}
}

func (w *walker) form(text string, p pair) {
	f, ok := parser.Tokenize(strings.TrimSpace(text[p.open+1 : p.close]))
	if !ok {
		return
	}
	w.check(f, Span{Start: p.open, End: p.close + 1})
}

func (w *walker) check(f parser.Form, span Span) {
	rule, ok := Rules[f.Keyword]
	if !ok {
		if !Operators[f.Keyword] {
			w.sink.Add(Finding{
				Check:    CheckUnknownKeyword,
				Severity: SeverityError,
				Span:     span,
				Message:  fmt.Sprintf("Unknown keyword '%s'", f.Keyword),
			})
		}
		return
	}
	argc := f.ArgCount()
	switch {
	case argc < rule.MinArgs:
		w.sink.Add(Finding{
			Check:    CheckArity,
			Severity: SeverityError,
			Span:     span,
			Message:  fmt.Sprintf("Too few args for '%s': expected %s, got %d", f.Keyword, rule.Arity(), argc),
		})
	case rule.MaxArgs != Unbounded && argc > rule.MaxArgs:
		w.sink.Add(Finding{
			Check:    CheckArity,
			Severity: SeverityWarning,
			Span:     span,
			Message:  fmt.Sprintf("Too many args for '%s': expected %s, got %d", f.Keyword, rule.Arity(), argc),
		})
	}
	if rule.Validate == nil {
		return
	}
	for _, finding := range rule.Validate(f, span, w.labels) {
		w.sink.Add(finding)
	}
}

// matchPairs matches parentheses in text, pairing each closer with the
// most recent unmatched opener, and returns the pairs in closing order.
// Unmatched closers are skipped. Pairs inside an opener that is never
// closed are still returned.
func matchPairs(text string) []pair {
	var (
		stack []int
		pairs []pair
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pairs = append(pairs, pair{open: open, close: i})
		}
	}
	return pairs
}
