// Copyright © 2024 The scenelint authors

package cmd

import (
	"fmt"
	"os"

	"github.com/scenelang/scenelint/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ReplCommand creates the "repl" cobra command.
func ReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Check scene forms interactively",
		Long: `Start an interactive session that validates forms as they are entered.

Lines accumulate until their parentheses balance. Each entry is validated
together with everything entered before it, so labels declared earlier can
be jumped to, and only problems in the new entry are shown. The missing
start check is off in the REPL. Tab completes keywords and labels, and
":reset" clears the session. Use Ctrl-D to exit.

Example session:
  scene> (label intro)
  ok
  scene> (jump outro)
  error[jump]: Undefined label 'outro'
  ...
  scene> (dialogue "Hello"
           speaker ana)
  ok`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			l, err := newLinter(viper.GetViper())
			if err != nil {
				fmt.Fprintf(os.Stderr, "scenelint repl: %v\n", err)
				os.Exit(exitUsage)
			}
			mode, err := colorMode(viper.GetViper())
			if err != nil {
				fmt.Fprintf(os.Stderr, "scenelint repl: %v\n", err)
				os.Exit(exitUsage)
			}
			if err := repl.RunRepl("scene> ", repl.WithLinter(l), repl.WithColor(mode)); err != nil {
				fmt.Fprintf(os.Stderr, "scenelint repl: %v\n", err)
				os.Exit(exitProblems)
			}
		},
	}
}
