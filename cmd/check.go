// Copyright © 2024 The scenelint authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/scenelang/scenelint/diagnostic"
	"github.com/scenelang/scenelint/document"
	"github.com/scenelang/scenelint/lint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// stdinName is the display name of a script read from stdin.
const stdinName = "<stdin>"

// fileResult holds the validated text and diagnostics of one script.
type fileResult struct {
	path  string
	text  *document.Text
	diags []lint.Diagnostic
}

// checkOptions configures one run of the check command.
type checkOptions struct {
	linter   *lint.Linter
	json     bool
	strict   bool
	jobs     int
	excludes []string
	color    diagnostic.ColorMode

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// CheckCommand creates the "check" cobra command.
func CheckCommand() *cobra.Command {
	var (
		jsonOut  bool
		strict   bool
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "check [flags] [files...]",
		Short: "Validate scene scripts",
		Long: `Validate scene scripts and report problems.

With no files, reads a script from stdin. A "dir/..." argument expands to
every .scene file below dir. Files are validated in parallel and reported
in argument order. Diagnostics are written to stderr, or to stdout as JSON
with --json.

Exit codes:
  0  No errors (warnings are allowed unless --strict)
  1  Errors, or warnings with --strict, were reported
  2  Bad invocation (invalid flags, unreadable files)

Available checks (suppress with --disable):
` + lint.CheckDoc() + `
Examples:
  scenelint check intro.scene                     # Check one script
  scenelint check ./...                           # Check a whole tree
  scenelint check --json chapter1/...             # JSON output
  scenelint check --disable=label intro.scene     # Suppress a check
  scenelint check --exclude='draft_*' ./...       # Skip drafts
  cat intro.scene | scenelint check               # Check stdin`,
		Run: func(cmd *cobra.Command, args []string) {
			code := exitUsage
			defer func() { os.Exit(code) }()

			l, err := newLinter(viper.GetViper())
			if err != nil {
				fmt.Fprintf(os.Stderr, "scenelint check: %v\n", err)
				return
			}
			mode, err := colorMode(viper.GetViper())
			if err != nil {
				fmt.Fprintf(os.Stderr, "scenelint check: %v\n", err)
				return
			}
			code = runCheck(cmd.Context(), checkOptions{
				linter:   l,
				json:     jsonOut,
				strict:   strict,
				jobs:     viper.GetInt("check.jobs"),
				excludes: excludes,
				color:    mode,
				stdin:    os.Stdin,
				stdout:   os.Stdout,
				stderr:   os.Stderr,
			}, args)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().BoolVar(&strict, "strict", false,
		"Exit with status 1 when only warnings are reported.")
	cmd.Flags().Int("jobs", 0,
		"Files validated in parallel (default: GOMAXPROCS).")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	_ = viper.BindPFlag("check.jobs", cmd.Flags().Lookup("jobs"))

	return cmd
}

// runCheck validates the scripts named by args, or stdin when args is
// empty, prints the results and returns the process exit code.
func runCheck(ctx context.Context, opts checkOptions, args []string) int {
	if ctx == nil {
		ctx = context.Background()
	}

	var results []fileResult
	if len(args) == 0 {
		src, err := io.ReadAll(opts.stdin)
		if err != nil {
			fmt.Fprintf(opts.stderr, "scenelint check: reading stdin: %v\n", err)
			return exitUsage
		}
		results = []fileResult{checkSource(opts.linter, stdinName, string(src))}
	} else {
		paths, err := expandArgs(args)
		if err != nil {
			fmt.Fprintf(opts.stderr, "scenelint check: %v\n", err)
			return exitUsage
		}
		paths = filterExcludes(paths, opts.excludes)
		results, err = checkFiles(ctx, opts.linter, paths, opts.jobs)
		if err != nil {
			fmt.Fprintf(opts.stderr, "scenelint check: %v\n", err)
			return exitUsage
		}
	}

	if opts.json {
		out := make([]lint.FileDiagnostics, 0, len(results))
		for _, res := range results {
			diags := res.diags
			if diags == nil {
				diags = []lint.Diagnostic{}
			}
			out = append(out, lint.FileDiagnostics{File: res.path, Diagnostics: diags})
		}
		if err := lint.FormatJSON(opts.stdout, out); err != nil {
			fmt.Fprintf(opts.stderr, "scenelint check: %v\n", err)
			return exitUsage
		}
	} else if err := renderResults(opts.stderr, opts.color, results); err != nil {
		fmt.Fprintf(opts.stderr, "scenelint check: %v\n", err)
		return exitUsage
	}

	return exitCode(results, opts.strict)
}

// checkSource validates one in-memory script.
func checkSource(l *lint.Linter, path, src string) fileResult {
	text := document.New(src)
	return fileResult{path: path, text: text, diags: l.Lint(src, text)}
}

// checkFiles reads and validates paths concurrently. Results are returned in
// the order of paths. The first unreadable file cancels the remaining work.
func checkFiles(ctx context.Context, l *lint.Linter, paths []string, jobs int) ([]fileResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			// Each goroutine writes only its own slot.
			results[i] = checkSource(l, path, string(src))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// exitCode maps results to the process exit status.
func exitCode(results []fileResult, strict bool) int {
	for _, res := range results {
		if lint.HasErrors(res.diags) {
			return exitProblems
		}
		if strict && len(res.diags) > 0 {
			return exitProblems
		}
	}
	return exitOK
}
