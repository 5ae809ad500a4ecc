// Copyright © 2024 The scenelint authors

// Package repl runs an interactive session that validates scene script
// forms as they are typed.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/scenelang/scenelint/diagnostic"
	"github.com/scenelang/scenelint/lint"
)

type config struct {
	stdin       io.ReadCloser
	stderr      io.Writer
	historyFile string
	linter      *lint.Linter
	color       diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	config := &config{
		stderr:      os.Stderr,
		historyFile: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the readline history file. An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithLinter sets the linter entries are validated with.
func WithLinter(l *lint.Linter) Option {
	return func(c *config) {
		c.linter = l
	}
}

// WithColor sets the color mode of rendered diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// RunRepl reads forms until end of input and reports the problems in each
// entry. The command :reset clears the session.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	session := NewSession(cfg.linter)
	cont := strings.Repeat(" ", len(prompt))

	ensureHistoryFilePermissions(cfg.historyFile)
	rlCfg := &readline.Config{
		Stdout:            cfg.stderr,
		Stderr:            cfg.stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &formCompleter{session: session},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	for {
		if session.Pending() {
			rl.SetPrompt(cont)
		} else {
			rl.SetPrompt(prompt)
		}
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return nil
		}
		if !session.Pending() && strings.TrimSpace(line) == ":reset" {
			session.Reset()
			fmt.Fprintln(cfg.stderr, "session cleared") //nolint:errcheck // best-effort REPL output
			continue
		}
		entry, ok := session.Feed(line)
		if !ok {
			continue
		}
		renderEntry(cfg.stderr, cfg.color, entry)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scenelint_history")
}

// ensureHistoryFilePermissions creates the history file with mode 0600 or
// restricts an existing one. History may contain script text the user
// does not want other accounts to read.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path is the user's own history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0o600)
}
