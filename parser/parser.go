// Copyright © 2024 The scenelint authors

/*
Package parser splits scene script forms into tokens.

A form is a parenthesized keyword expression:

	form    := '(' <keyword> <arg>* ')'
	arg     := <quoted> | <word> | <form>
	quoted  := '"' <any byte except '"'>... '"'
	word    := <any byte except whitespace>...

The package does not build a tree. The lint package finds matching
parentheses itself and hands the inner text of each form to Tokenize.
*/
package parser

import (
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// Form is the keyword and arguments of a single parenthesized form.
type Form struct {
	Keyword string
	Args    []string
}

// ArgCount returns the number of arguments (excluding the keyword).
func (f Form) ArgCount() int {
	return len(f.Args)
}

// Arg returns the i'th argument or "" when there are fewer arguments.
func (f Form) Arg(i int) string {
	if i < 0 || i >= len(f.Args) {
		return ""
	}
	return f.Args[i]
}

// String returns the form re-joined with single spaces.
func (f Form) String() string {
	if len(f.Args) == 0 {
		return "(" + f.Keyword + ")"
	}
	return "(" + f.Keyword + " " + strings.Join(f.Args, " ") + ")"
}

var (
	// quoted literals are tried first so that whitespace inside them does
	// not split the token.
	quotedToken = parsec.Token(`"[^"]*"`, "QUOTED")
	wordToken   = parsec.Token(`\S+`, "WORD")
	spaceToken  = parsec.Token(`\s+`, "SPACE")
)

// Tokenize splits the inner content of a form into tokens. The first token
// is the keyword and the rest, in source order, are the arguments. A
// quoted literal keeps its quotes. Tokenize returns false when content
// holds no tokens at all.
func Tokenize(content string) (Form, bool) {
	toks := Tokens(content)
	if len(toks) == 0 {
		return Form{}, false
	}
	return Form{Keyword: toks[0], Args: toks[1:]}, true
}

// Tokens returns the tokens of content in source order.
func Tokens(content string) []string {
	var toks []string
	s := parsec.NewScanner([]byte(content))
	for {
		_, s = s.SkipWS()
		if s.Endof() {
			return toks
		}
		node, next := quotedToken(s)
		if node == nil {
			node, next = wordToken(s)
		}
		if node == nil {
			// Whitespace the scanner does not skip on its own (form feeds).
			node, next = spaceToken(s)
			if node == nil {
				return toks
			}
			s = next
			continue
		}
		term, ok := node.(*parsec.Terminal)
		if !ok {
			return toks
		}
		toks = append(toks, term.GetValue())
		s = next
	}
}

// IsQuoted reports whether tok is a complete double-quoted literal.
func IsQuoted(tok string) bool {
	return len(tok) >= 2 && strings.HasPrefix(tok, `"`) && strings.HasSuffix(tok, `"`)
}

// Unquote strips one pair of surrounding double quotes from tok. Tokens
// that are not quoted are returned unchanged.
func Unquote(tok string) string {
	if !IsQuoted(tok) {
		return tok
	}
	return tok[1 : len(tok)-1]
}
