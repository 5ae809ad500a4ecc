// Copyright © 2024 The scenelint authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	history := filepath.Join(t.TempDir(), ".scenelint_history")

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		errc <- RunRepl("scene> ", WithStdin(inR), WithStderr(outW), WithHistoryFile(history))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup
	require.NoError(t, <-errc)

	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".scenelint_history")

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".scenelint_history")
	require.NoError(t, os.WriteFile(histFile, []byte("(say hi)"), 0644))

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "(say hi)", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Clean form",
			input:    "(say hi)\n",
			expected: []string{"ok\n"},
		},
		{
			name:     "Undefined label",
			input:    "(label intro)\n(jump nowhere)\n",
			expected: []string{"ok\n", "error[jump]: Undefined label 'nowhere'", "--> <repl>:1:1", "(jump nowhere)"},
		},
		{
			name:     "Multi-line entry",
			input:    "(choice\n  (foo))\n",
			expected: []string{"error[unknown-keyword]: Unknown keyword 'foo'", "--> <repl>:2:3"},
		},
		{
			name:     "Warning",
			input:    "(say a b)\n",
			expected: []string{"warning[arity]: Too many args for 'say'"},
		},
		{
			name:     "Discarded entry",
			input:    "(say hi))\n",
			expected: []string{"error[balance]", "entry discarded"},
		},
		{
			name:     "Reset",
			input:    "(label a)\n:reset\n(jump a)\n",
			expected: []string{"session cleared", "Undefined label 'a'"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}
