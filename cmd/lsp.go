// Copyright © 2024 The scenelint authors

package cmd

import (
	"fmt"
	"os"

	"github.com/scenelang/scenelint/lsp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple" // log backend
)

// LSPCommand creates the "lsp" cobra command.
func LSPCommand() *cobra.Command {
	var (
		stdio   bool
		port    int
		verbose int
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the scene Language Server Protocol server",
		Long: `Start an LSP server for .scene scripts.

The language server validates open documents as they are edited and
publishes diagnostics. It also provides keyword and label completion,
hover documentation, go-to-definition and references for labels, document
symbols, folding ranges and label rename.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Logs go to stderr, or to --log-file. Repeat -v for more detail.

Examples:
  scenelint lsp                           Start with stdio transport
  scenelint lsp --port 7998 -vv           TCP on port 7998 with debug logs
  scenelint lsp --log-file /tmp/lsp.log   Log to a file

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "scenelint lsp --stdio" for .scene files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbose, path)

			l, err := newLinter(viper.GetViper())
			if err != nil {
				fmt.Fprintf(os.Stderr, "scenelint lsp: %v\n", err)
				os.Exit(exitUsage)
			}

			srv := lsp.New(
				lsp.WithLinter(l),
				lsp.WithDebounce(viper.GetDuration("lsp.debounce")),
			)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				commonlog.GetLogger("scenelint").Noticef("LSP server listening on %s", addr)
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(exitProblems)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(exitProblems)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().CountVarP(&verbose, "verbose", "v",
		"Log verbosity (repeat for more)")
	cmd.Flags().StringVar(&logFile, "log-file", "",
		"Write logs to this file instead of stderr")
	cmd.Flags().Duration("debounce", lsp.DefaultDebounce,
		"Delay before re-validating an edited document")
	_ = viper.BindPFlag("lsp.debounce", cmd.Flags().Lookup("debounce"))

	return cmd
}
