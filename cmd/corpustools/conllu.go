package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtcorpus/corpustools/internal/config"
	"github.com/mtcorpus/corpustools/internal/conllu"
	"github.com/mtcorpus/corpustools/internal/lineio"
)

// NewConllu2HeadsCmd creates the conllu2heads command.
func NewConllu2HeadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conllu2heads",
		Short: "Extract dependency heads from CoNLL-U",
		Long: `Conllu2heads prints the HEAD column of each CoNLL-U sentence as one line of
space-separated indices.

With --split-fwspace, word forms containing full-width spaces (U+3000) are
split into several words, each pointing to the next, and later heads are
shifted to match.

Examples:
  corpustools conllu2heads --input train.conllu > train.heads
  corpustools conllu2heads --split-fwspace < train.ja.conllu`,
		Args: cobra.NoArgs,
		RunE: runConllu2HeadsCmd,
	}

	cmd.Flags().String("input", config.DefaultInput,
		"Input CoNLL-U file (- for stdin)")
	cmd.Flags().Bool("split-fwspace", false,
		"Split by full-width space for Japanese corpora")

	return cmd
}

// runConllu2HeadsCmd executes the conllu2heads command.
func runConllu2HeadsCmd(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if err := setIfChanged(cmd, "input", &cfg.Input, flags.GetString); err != nil {
		return err
	}
	if err := setIfChanged(cmd, "split-fwspace", &cfg.SplitFWSpace, flags.GetBool); err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	src, err := lineio.Open(cfg.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	out := bufferedOutput(cmd)
	defer func() {
		if flushErr := out.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("failed to write output: %w", flushErr)
		}
	}()

	n, err := conllu.NewConverter(conllu.WithSplitFWSpace(cfg.SplitFWSpace)).Convert(ctx, src, out)
	if err != nil {
		return err
	}

	logger.Debug("converted sentences", "input", src.Name(), "sentences", n)
	return nil
}
