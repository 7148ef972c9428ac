package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for corpustools.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpustools",
		Short: "Utilities for machine translation corpora",
		Long: `corpustools is a set of single-pass utilities for machine translation corpora.

It reports corpus statistics with a sentence length histogram, removes
empty or badly proportioned sentence pairs from parallel corpora, extracts
dependency heads from CoNLL-U files and finds idle GPUs for training jobs.

Defaults can be set in a .corpustools.yaml file (see "corpustools init").`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .corpustools.yaml in current directory or XDG config directory)")

	cmd.AddCommand(NewInfoCmd())
	cmd.AddCommand(NewCleanCmd())
	cmd.AddCommand(NewCleanEmptyCmd())
	cmd.AddCommand(NewConllu2HeadsCmd())
	cmd.AddCommand(NewGPUIDsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
