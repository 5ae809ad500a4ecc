// Copyright © 2024 The scenelint authors

package repl

import (
	"strings"

	"github.com/scenelang/scenelint/lint"
)

// formCompleter implements readline.AutoCompleter. It completes keywords
// right after an opening parenthesis and label names after "(jump " or
// "(start ".
type formCompleter struct {
	session *Session
}

func (c *formCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or open paren).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])

	var candidates []string
	switch keyword, ok := formKeyword(line[:start]); {
	case !ok:
		return nil, 0
	case keyword == "":
		candidates = lint.Keywords()
	case keyword == "jump":
		candidates = append(c.session.Labels(), "end")
	case keyword == "start":
		candidates = c.session.Labels()
	default:
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	var result [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, prefix) {
			result = append(result, []rune(cand[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len([]rune(prefix))
}

// formKeyword inspects the text before the word being completed. It
// reports an empty keyword when the word is in keyword position, and the
// form's keyword when the word is the form's first argument.
func formKeyword(before []rune) (string, bool) {
	text := strings.TrimRight(string(before), " \t")
	if strings.HasSuffix(text, "(") {
		return "", true
	}
	if len(text) == len(string(before)) {
		// No separator between the keyword and the word.
		return "", false
	}
	open := strings.LastIndex(text, "(")
	if open < 0 {
		return "", false
	}
	keyword := strings.TrimSpace(text[open+1:])
	if keyword == "" || strings.ContainsAny(keyword, " \t()\"") {
		return "", false
	}
	return keyword, true
}
