// Copyright © 2024 The scenelint authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/scenelang/scenelint/docs"
	"github.com/scenelang/scenelint/lint"
	"github.com/spf13/cobra"
)

// rulesWidth is the column keyword docs are wrapped at.
const rulesWidth = 72

// operatorOrder is the display order of lint.Operators.
var operatorOrder = []string{"=", "+", "-", "*", "/", "%"}

// RulesCommand creates the "rules" cobra command.
func RulesCommand() *cobra.Command {
	var checksOnly, guide bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List keywords and checks",
		Long: `List every keyword of the scene language with the number of arguments it
accepts and its documentation, followed by the checks that can be disabled.
With --guide, print an introduction to the language instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if guide {
				_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
				return err
			}
			if checksOnly {
				return writeChecks(cmd.OutOrStdout())
			}
			return writeRules(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&checksOnly, "checks", false,
		"List only check names.")
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the scene language guide.")

	return cmd
}

// writeRules writes the keyword table and the check catalogue to w.
func writeRules(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Keywords:\n\n")
	for _, kw := range lint.Keywords() {
		rule := lint.Rules[kw]
		fmt.Fprintf(&b, "  %s (%s args)\n", kw, rule.Arity())
		b.WriteString(indent.String(wordwrap.String(rule.Doc, rulesWidth-6), 6))
		b.WriteString("\n\n")
	}
	var ops []string
	for _, op := range operatorOrder {
		if lint.Operators[op] {
			ops = append(ops, op)
		}
	}
	fmt.Fprintf(&b, "Operators (accepted in keyword position, not checked):\n\n  %s\n\n",
		strings.Join(ops, " "))
	b.WriteString("Checks:\n\n")
	b.WriteString(lint.CheckDoc())
	_, err := io.WriteString(w, b.String())
	return err
}

// writeChecks writes one check name per line.
func writeChecks(w io.Writer) error {
	_, err := io.WriteString(w, strings.Join(lint.CheckNames(), "\n")+"\n")
	return err
}
