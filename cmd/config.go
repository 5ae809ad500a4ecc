// Copyright © 2024 The scenelint authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/scenelang/scenelint/diagnostic"
	"github.com/scenelang/scenelint/lint"
	"github.com/spf13/viper"
)

// Exit codes shared by the commands.
const (
	exitOK       = 0
	exitProblems = 1
	exitUsage    = 2
)

// newLinter builds a linter from the "source" and "disable" settings.
func newLinter(v *viper.Viper) (*lint.Linter, error) {
	disabled, err := checkList(v.GetStringSlice("disable"))
	if err != nil {
		return nil, err
	}
	return &lint.Linter{
		Source:   v.GetString("source"),
		Disabled: disabled,
	}, nil
}

// checkList validates check names. Entries may themselves be comma
// separated, as they are when read from an environment variable.
func checkList(names []string) ([]string, error) {
	var out []string
	for _, entry := range names {
		for _, name := range strings.Split(entry, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !lint.IsCheck(name) {
				return nil, fmt.Errorf("unknown check: %s", name)
			}
			out = append(out, name)
		}
	}
	return out, nil
}

// colorMode returns the configured color mode.
func colorMode(v *viper.Viper) (diagnostic.ColorMode, error) {
	mode, err := diagnostic.ParseColorMode(v.GetString("color"))
	if err != nil {
		return diagnostic.ColorAuto, fmt.Errorf("--color: %w", err)
	}
	return mode, nil
}
