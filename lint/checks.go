// Copyright © 2024 The scenelint authors

package lint

import (
	"fmt"
	"strings"
)

// Check names. They appear in JSON output, as the LSP diagnostic code and
// in the "disable" configuration list.
const (
	CheckBalance        = "balance"
	CheckUnknownKeyword = "unknown-keyword"
	CheckArity          = "arity"
	CheckLabel          = "label"
	CheckDialogue       = "dialogue"
	CheckAfter          = "after"
	CheckJump           = "jump"
	CheckStart          = "start"
	CheckSet            = "set"
	CheckMissingStart   = "missing-start"
	CheckMultipleStart  = "multiple-start"
	CheckDialogueQuote  = "dialogue-quote"
)

// Check describes one named check.
type Check struct {
	Name string
	Doc  string
}

var checks = []Check{
	{CheckBalance, "The script must contain as many closing as opening parentheses."},
	{CheckUnknownKeyword, "Every form must start with a known keyword or an arithmetic operator."},
	{CheckArity, "Forms must have as many arguments as their keyword allows. Too few is an error, too many a warning."},
	{CheckLabel, "Labels must be unique and should start with a letter followed by letters, digits, underscores or hyphens."},
	{CheckDialogue, "Dialogue text must be quoted and non-empty. A speaker is given as: speaker NAME."},
	{CheckAfter, "after must be followed by load, jump, end or an inline (set ...)."},
	{CheckJump, "jump targets must be end or a declared label."},
	{CheckStart, "start must name a declared label."},
	{CheckSet, "set must name a variable that starts with a letter or underscore."},
	{CheckMissingStart, "A script must contain a start form."},
	{CheckMultipleStart, "A script must contain only one start form."},
	{CheckDialogueQuote, "Whole-script scan for dialogue forms whose text is not quoted, including forms that are never closed."},
}

// Checks returns every check in report order.
func Checks() []Check {
	out := make([]Check, len(checks))
	copy(out, checks)
	return out
}

// CheckNames returns the names of every check.
func CheckNames() []string {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name
	}
	return names
}

// IsCheck reports whether name is a known check.
func IsCheck(name string) bool {
	for _, c := range checks {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CheckDoc returns a formatted listing of every check.
func CheckDoc() string {
	var b strings.Builder
	for _, c := range checks {
		fmt.Fprintf(&b, "  %s\n    %s\n\n", c.Name, c.Doc)
	}
	return b.String()
}
