// Copyright © 2024 The scenelint authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scenelint",
	Short: "Static checks for .scene dialogue scripts",
	Long: `scenelint validates scripts written in the scene language, the
parenthesized form language used for branching dialogue, and reports
structural and semantic problems. It never executes or modifies a script.

Getting started:
  scenelint check intro.scene       Check a script
  scenelint check ./...             Check every .scene file below .
  scenelint rules                   List keywords and checks
  scenelint repl                    Check forms interactively
  scenelint lsp                     Start the language server

Language overview:
  A script is a sequence of forms such as (label intro), (dialogue "Hi"
  speaker ana) and (jump intro). Labels are jump targets, and exactly one
  (start NAME) form names the label the script begins at.

Configuration is read from $HOME/.scenelint.yaml (or --config) and from
SCENELINT_* environment variables:
  source          Source tag attached to diagnostics
  disable         List of check names to suppress
  color           auto, always or never
  lsp.debounce    Delay before re-validating an edited document
  check.jobs      Files validated in parallel by check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scenelint.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.StringSlice("disable", nil, "Check names to suppress (may be repeated or comma separated).")
	flags.String("source", "", "Source tag attached to diagnostics (default \"scenelint\").")

	for _, key := range []string{"color", "disable", "source"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(CheckCommand(), LSPCommand(), ReplCommand(), RulesCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".scenelint" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".scenelint")
	}

	viper.SetEnvPrefix("SCENELINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config is fine, an explicit one is not.
		if cfgFile != "" {
			fmt.Fprintf(os.Stderr, "scenelint: reading config: %v\n", err)
			os.Exit(exitUsage)
		}
		return
	}
	// stdout may be the LSP transport.
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
}
